package dto

// ── 门店模块 DTO ──

// CreateLocationRequest 创建门店请求
type CreateLocationRequest struct {
	Name    string `json:"name"    binding:"required,min=2,max=100"`
	Address string `json:"address" binding:"required,min=2,max=200"`
}

// UpdateLocationRequest 更新门店请求
type UpdateLocationRequest struct {
	Name     *string `json:"name"    binding:"omitempty,min=2,max=100"`
	Address  *string `json:"address" binding:"omitempty,min=2,max=200"`
	IsActive *bool   `json:"is_active"`
}

// LocationListRequest 门店列表查询参数
type LocationListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// LocationResponse 门店信息响应
type LocationResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
