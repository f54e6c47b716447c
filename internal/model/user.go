package model

// ── 用户角色 ──

const (
	RoleAdmin    = "admin"
	RoleWaiter   = "waiter"
	RoleCustomer = "customer"
)

// User 用户表 — 对应 users（顾客与员工共用）
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(50);not null"                      json:"name"`
	Email        string  `gorm:"type:varchar(100);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(100);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'customer'"   json:"role"`
	LocationID   *string `gorm:"type:uuid"                                      json:"location_id,omitempty"` // 服务员所属门店
	SoftDeleteModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }
