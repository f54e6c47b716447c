package dto

// ── 餐桌模块 DTO ──

// CreateTableRequest 创建餐桌请求
type CreateTableRequest struct {
	TableNumber string `json:"table_number" binding:"required,min=1,max=20"`
	Capacity    int    `json:"capacity"     binding:"required,min=1"`
	LocationID  string `json:"location_id"  binding:"required,uuid"`
}

// UpdateTableRequest 更新餐桌请求
type UpdateTableRequest struct {
	TableNumber *string `json:"table_number" binding:"omitempty,min=1,max=20"`
	Capacity    *int    `json:"capacity"     binding:"omitempty,min=1"`
	IsActive    *bool   `json:"is_active"`
}

// TableListRequest 餐桌列表查询参数
type TableListRequest struct {
	LocationID string `form:"location_id" binding:"required,uuid"`
}

// TableResponse 餐桌信息响应
type TableResponse struct {
	ID          string `json:"id"`
	TableNumber string `json:"table_number"`
	Capacity    int    `json:"capacity"`
	LocationID  string `json:"location_id"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}
