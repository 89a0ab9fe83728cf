package service

import (
	"context"

	"shoperp/internal/dto"
	"shoperp/internal/repository"
)

// StatsService produces the dashboard rollup. Read-only, no caching: counts
// and the inventory value are recomputed by the store on every call.
type StatsService interface {
	Overview(ctx context.Context) (*dto.StatsResponse, error)
}

type statsService struct {
	products  repository.ProductRepository
	customers repository.CustomerRepository
	suppliers repository.SupplierRepository
	sales     repository.SaleRepository
	purchases repository.PurchaseRepository
}

func NewStatsService(
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	suppliers repository.SupplierRepository,
	sales repository.SaleRepository,
	purchases repository.PurchaseRepository,
) StatsService {
	return &statsService{
		products:  products,
		customers: customers,
		suppliers: suppliers,
		sales:     sales,
		purchases: purchases,
	}
}

func (s *statsService) Overview(ctx context.Context) (*dto.StatsResponse, error) {
	var counts dto.StatsCounts
	var err error

	if counts.Products, err = s.products.Count(ctx); err != nil {
		return nil, err
	}
	if counts.Customers, err = s.customers.Count(ctx); err != nil {
		return nil, err
	}
	if counts.Suppliers, err = s.suppliers.Count(ctx); err != nil {
		return nil, err
	}
	if counts.Sales, err = s.sales.Count(ctx); err != nil {
		return nil, err
	}
	if counts.Purchases, err = s.purchases.Count(ctx); err != nil {
		return nil, err
	}

	value, err := s.products.InventoryValue(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{Counts: counts, InventoryValue: value}, nil
}
