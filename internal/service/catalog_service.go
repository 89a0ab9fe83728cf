package service

import (
	"context"
	"errors"
	"time"

	"shoperp/internal/apierror"
	"shoperp/internal/dto"
	"shoperp/internal/model"
	"shoperp/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService manages the product catalog. Create enforces sku uniqueness;
// Update is a full field replacement, quantity included — only the ledger
// writes movement records.
type CatalogService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.SearchFilter) ([]dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo repository.ProductRepository
}

func NewCatalogService(repo repository.ProductRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, err := s.repo.FindBySKU(ctx, req.SKU)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apierror.DuplicateSKU(req.SKU)
	}

	p := model.Product{
		SKU:          req.SKU,
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		Cost:         req.Cost,
		Quantity:     req.Quantity,
		ReorderLevel: req.ReorderLevel,
		IsActive:     true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}
	return productToResponse(&p), nil
}

func (s *catalogService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("product")
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *catalogService) List(ctx context.Context, filter dto.SearchFilter) ([]dto.ProductResponse, error) {
	products, err := s.repo.Search(ctx, filter.Q, filter.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func (s *catalogService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("product")
		}
		return err
	}

	// Changing sku must not collide with another product.
	if req.SKU != p.SKU {
		existing, err := s.repo.FindBySKU(ctx, req.SKU)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil && existing.ID != id {
			return apierror.DuplicateSKU(req.SKU)
		}
	}

	p.SKU = req.SKU
	p.Name = req.Name
	p.Description = req.Description
	p.Category = req.Category
	p.Price = req.Price
	p.Cost = req.Cost
	p.Quantity = req.Quantity
	p.ReorderLevel = req.ReorderLevel
	p.IsActive = true
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	return s.repo.Update(ctx, p)
}

func (s *catalogService) Delete(ctx context.Context, id uuid.UUID) error {
	// Hard delete, no cascade check: historical sales and movements keep their
	// soft references to the removed id.
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apierror.NotFound("product")
	}
	return nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID.String(),
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.Price,
		Cost:         p.Cost,
		Quantity:     p.Quantity,
		ReorderLevel: p.ReorderLevel,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}
