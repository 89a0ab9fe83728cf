package repository

import (
	"context"

	"shoperp/internal/model"

	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	Search(ctx context.Context, q string, limit int) ([]model.Supplier, error)
	Count(ctx context.Context) (int64, error)
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) Search(ctx context.Context, q string, limit int) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	query := r.db.WithContext(ctx).Model(&model.Supplier{})
	if q != "" {
		query = query.Where("name ILIKE ?", "%"+q+"%")
	}
	err := query.Order("name ASC").Limit(limit).Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Supplier{}).Count(&n).Error
	return n, err
}
