package repository

import (
	"context"

	"gorm.io/gorm"

	"tablebook/internal/model"
)

// TableRepository 餐桌数据访问接口
type TableRepository interface {
	Create(ctx context.Context, table *model.RestaurantTable) error
	GetByID(ctx context.Context, id string) (*model.RestaurantTable, error)
	// ListByLocation 返回门店内容纳人数不小于 minCapacity 的在用餐桌；
	// minCapacity <= 0 时不过滤容量。
	ListByLocation(ctx context.Context, locationID string, minCapacity int) ([]model.RestaurantTable, error)
	Update(ctx context.Context, table *model.RestaurantTable) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type tableRepo struct {
	db *gorm.DB
}

// NewTableRepo 创建 TableRepository 实例
func NewTableRepo(db *gorm.DB) TableRepository {
	return &tableRepo{db: db}
}

func (r *tableRepo) Create(ctx context.Context, table *model.RestaurantTable) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *tableRepo) GetByID(ctx context.Context, id string) (*model.RestaurantTable, error) {
	var table model.RestaurantTable
	err := r.db.WithContext(ctx).
		Preload("Location").
		Where("table_id = ?", id).
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *tableRepo) ListByLocation(ctx context.Context, locationID string, minCapacity int) ([]model.RestaurantTable, error) {
	var tables []model.RestaurantTable
	db := r.db.WithContext(ctx).
		Where("location_id = ? AND is_active = ?", locationID, true)

	if minCapacity > 0 {
		db = db.Where("capacity >= ?", minCapacity)
	}

	err := db.Order("table_number ASC").Find(&tables).Error
	return tables, err
}

func (r *tableRepo) Update(ctx context.Context, table *model.RestaurantTable) error {
	return r.db.WithContext(ctx).Save(table).Error
}

func (r *tableRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.RestaurantTable{}).
		Where("table_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
