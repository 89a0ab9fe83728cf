package repository

import (
	"context"

	"shoperp/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	Search(ctx context.Context, q string, limit int) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	// Delete removes the row; reports false when the id matched nothing.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Count(ctx context.Context) (int64, error)
	// InventoryValue computes SUM(cost * quantity) in the store.
	InventoryValue(ctx context.Context) (decimal.Decimal, error)

	// Used inside transactions — callers must pass the tx instance.
	AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) error
	// DecrementStockGuardedTx decrements quantity only when enough stock is on
	// hand; reports false (and writes nothing) otherwise. This is the atomic
	// check-and-decrement that closes the read-then-write oversell race.
	DecrementStockGuardedTx(tx *gorm.DB, id uuid.UUID, qty int) (bool, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) Search(ctx context.Context, q string, limit int) ([]model.Product, error) {
	var products []model.Product
	query := r.db.WithContext(ctx).Model(&model.Product{})
	if q != "" {
		pattern := "%" + q + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ? OR category ILIKE ?", pattern, pattern, pattern)
	}
	err := query.Order("name ASC").Limit(limit).Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	// Save writes every column — PUT is full replacement.
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&n).Error
	return n, err
}

func (r *productRepo) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var v decimal.Decimal
	row := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("COALESCE(SUM(cost * quantity), 0)").Row()
	if err := row.Scan(&v); err != nil {
		return decimal.Zero, err
	}
	return v, nil
}

func (r *productRepo) AdjustStockTx(tx *gorm.DB, id uuid.UUID, delta int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *productRepo) DecrementStockGuardedTx(tx *gorm.DB, id uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty))
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) DB() *gorm.DB { return r.db }
