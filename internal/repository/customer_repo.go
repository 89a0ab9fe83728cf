package repository

import (
	"context"

	"shoperp/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) error
	Search(ctx context.Context, q string, limit int) ([]model.Customer, error)
	Count(ctx context.Context) (int64, error)
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) Create(ctx context.Context, c *model.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *customerRepo) Search(ctx context.Context, q string, limit int) ([]model.Customer, error) {
	var customers []model.Customer
	query := r.db.WithContext(ctx).Model(&model.Customer{})
	if q != "" {
		query = query.Where("name ILIKE ?", "%"+q+"%")
	}
	err := query.Order("name ASC").Limit(limit).Find(&customers).Error
	return customers, err
}

func (r *customerRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Customer{}).Count(&n).Error
	return n, err
}
