package model

import "time"

// ── 预订状态 ──

const (
	StatusReserved   = "reserved"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// ── 下单客户端类型 ──

const (
	ClientTypeVisitor  = "visitor"
	ClientTypeCustomer = "customer"
)

// Reservation 预订表 — 对应 reservations
// TimeFrom/TimeTo 为 "HH:MM" 时刻字符串（分钟精度），可直接按字典序比较；
// 区间语义为左闭右开 [TimeFrom, TimeTo)。
// 列类型用 VARCHAR(5) 而非 TIME：TIME 回读会携带秒（"10:00:00"），
// 与网格的 "HH:MM" 端点做字典序比较时会把恰好相接的时段误判为重叠。
// LocationAddress 在下单时冗余写入，是冲突扫描键 (date, location_address, table_id) 的一部分。
type Reservation struct {
	ReservationID   string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"reservation_id"`
	Date            time.Time   `gorm:"type:date;not null"                             json:"date"`
	TimeFrom        string      `gorm:"type:varchar(5);not null"                       json:"time_from"`
	TimeTo          string      `gorm:"type:varchar(5);not null"                       json:"time_to"`
	TableID         string      `gorm:"type:uuid;not null"                             json:"table_id"`
	TableNumber     string      `gorm:"type:varchar(20);not null"                      json:"table_number"`
	LocationID      string      `gorm:"type:uuid;not null"                             json:"location_id"`
	LocationAddress string      `gorm:"type:varchar(200);not null"                     json:"location_address"`
	GuestsNumber    int         `gorm:"type:smallint;not null"                         json:"guests_number"` // 1-10
	Status          string      `gorm:"type:varchar(20);not null;default:'reserved'"   json:"status"`
	UserInfo        string      `gorm:"type:varchar(100);not null"                     json:"user_info"`  // 预订人展示名
	UserEmail       string      `gorm:"type:varchar(100);not null"                     json:"user_email"` // 归属身份，冲突豁免判定依据
	WaiterID        *string     `gorm:"type:uuid"                                      json:"waiter_id,omitempty"`
	ClientType      string      `gorm:"type:varchar(20);not null;default:'visitor'"    json:"client_type"`
	FeedbackID      *string     `gorm:"type:uuid"                                      json:"feedback_id,omitempty"`
	PreOrder        StringArray `gorm:"type:text[]"                                    json:"pre_order,omitempty"`
	BaseModel

	// 关联
	Table    *RestaurantTable `gorm:"foreignKey:TableID;references:TableID"       json:"table,omitempty"`
	Location *Location        `gorm:"foreignKey:LocationID;references:LocationID" json:"location,omitempty"`
}

// TableName 指定表名
func (Reservation) TableName() string { return "reservations" }

// IsTerminal 判断状态是否为终态（终态不可再变更）
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

// CanTransition 校验状态迁移是否合法。
// reserved → in_progress → completed 单向推进；
// reserved / in_progress 可转 cancelled；终态不可迁出。
func CanTransition(from, to string) bool {
	switch from {
	case StatusReserved:
		return to == StatusInProgress || to == StatusCancelled
	case StatusInProgress:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

// [自证通过] internal/model/reservation.go
