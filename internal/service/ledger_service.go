package service

import (
	"context"
	"errors"
	"time"

	"shoperp/internal/apierror"
	"shoperp/internal/dto"
	"shoperp/internal/model"
	"shoperp/internal/repository"
	"shoperp/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LedgerService is the transactional core: it computes document totals,
// validates stock, mutates product quantities, and appends the immutable
// movement log. Sales and purchases are readable but never updated or deleted.
type LedgerService interface {
	RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleResult, error)
	RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest) (*dto.PurchaseResult, error)
	AdjustStock(ctx context.Context, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.AdjustStockResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, limit int) ([]dto.SaleResponse, error)
	GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error)
	ListPurchases(ctx context.Context, limit int) ([]dto.PurchaseResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) ([]dto.MovementResponse, error)
}

type ledgerService struct {
	sales      repository.SaleRepository
	purchases  repository.PurchaseRepository
	products   repository.ProductRepository
	movements  repository.MovementRepository
	dispatcher *worker.Dispatcher
}

func NewLedgerService(
	sales repository.SaleRepository,
	purchases repository.PurchaseRepository,
	products repository.ProductRepository,
	movements repository.MovementRepository,
	dispatcher *worker.Dispatcher,
) LedgerService {
	return &ledgerService{
		sales:      sales,
		purchases:  purchases,
		products:   products,
		movements:  movements,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RecordSale ────────────────────────────────────────────────────────────────
// Two phases per call:
//  1. Read-only validation over ALL items — any failure aborts with zero writes.
//  2. One transaction: insert sale + items, guarded decrement per item, one
//     movement per item. The guarded decrement (quantity >= n) is what makes
//     concurrent sales on the same product safe; a zero-row update rolls the
//     whole order back.

func (s *ledgerService) RecordSale(ctx context.Context, req dto.RecordSaleRequest) (*dto.SaleResult, error) {
	customerID, err := parseOptionalID(req.CustomerID, "customer_id")
	if err != nil {
		return nil, err
	}
	tax, err := optionalAmount(req.Tax, "tax")
	if err != nil {
		return nil, err
	}

	// Phase 1: resolve products and compute totals.
	type resolvedItem struct {
		product   *model.Product
		productID uuid.UUID
		sku       *string
		name      *string
		quantity  int
		price     decimal.Decimal
		lineTotal decimal.Decimal
	}

	var resolved []resolvedItem
	subtotal := decimal.Zero

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.InvalidID("product_id")
		}
		p, err := s.products.FindByID(ctx, pid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.ProductNotFound(item.ProductID)
			}
			return nil, err
		}
		if p.Quantity < item.Quantity {
			return nil, apierror.InsufficientStock(p.Name)
		}

		// A client-supplied line_total is preserved verbatim; it is only
		// computed as quantity * price when absent.
		lineTotal, err := lineTotalOrDerive(item.LineTotal, item.Quantity, item.Price)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(lineTotal)

		sku, name := item.SKU, item.Name
		if sku == nil {
			v := p.SKU
			sku = &v
		}
		if name == nil {
			v := p.Name
			name = &v
		}

		resolved = append(resolved, resolvedItem{
			product:   p,
			productID: pid,
			sku:       sku,
			name:      name,
			quantity:  item.Quantity,
			price:     item.Price,
			lineTotal: lineTotal,
		})
	}

	total := subtotal.Add(tax)

	sale := model.Sale{
		CustomerID: customerID,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      total,
		Notes:      req.Notes,
	}
	for _, r := range resolved {
		sale.Items = append(sale.Items, model.SaleItem{
			ProductID: r.productID,
			SKU:       r.sku,
			Name:      r.name,
			Quantity:  r.quantity,
			Price:     r.price,
			LineTotal: r.lineTotal,
		})
	}

	// Phase 2: mutate atomically.
	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		if err := s.sales.CreateTx(tx, &sale); err != nil {
			return err
		}
		for _, r := range resolved {
			ok, err := s.products.DecrementStockGuardedTx(tx, r.productID, r.quantity)
			if err != nil {
				return err
			}
			if !ok {
				// Stock moved between the validation pass and now.
				return apierror.InsufficientStock(r.product.Name)
			}
			ref := sale.ID
			mov := &model.StockMovement{
				ProductID:      r.productID,
				Type:           model.MovementSale,
				QuantityChange: -r.quantity,
				Reason:         "Sale",
				RefID:          &ref,
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Best-effort low-stock checks — never fail the sale over them.
	if s.dispatcher != nil {
		for _, r := range resolved {
			if err := s.dispatcher.EnqueueStockAlert(ctx, r.productID); err != nil {
				log.Debug().Err(err).Str("product_id", r.productID.String()).Msg("stock alert enqueue skipped")
			}
		}
	}

	return &dto.SaleResult{
		ID:       sale.ID.String(),
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
	}, nil
}

// ── RecordPurchase ────────────────────────────────────────────────────────────
// Mirrors RecordSale without the sufficiency check — purchases only add stock.
// Product existence IS validated before mutation: the increment-a-phantom
// laxity of earlier revisions is deliberately tightened here.

func (s *ledgerService) RecordPurchase(ctx context.Context, req dto.RecordPurchaseRequest) (*dto.PurchaseResult, error) {
	supplierID, err := parseOptionalID(req.SupplierID, "supplier_id")
	if err != nil {
		return nil, err
	}
	tax, err := optionalAmount(req.Tax, "tax")
	if err != nil {
		return nil, err
	}

	type resolvedItem struct {
		productID uuid.UUID
		quantity  int
		cost      decimal.Decimal
		lineTotal decimal.Decimal
	}

	var resolved []resolvedItem
	subtotal := decimal.Zero

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, apierror.InvalidID("product_id")
		}
		if _, err := s.products.FindByID(ctx, pid); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierror.ProductNotFound(item.ProductID)
			}
			return nil, err
		}
		lineTotal, err := lineTotalOrDerive(item.LineTotal, item.Quantity, item.Cost)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(lineTotal)
		resolved = append(resolved, resolvedItem{
			productID: pid,
			quantity:  item.Quantity,
			cost:      item.Cost,
			lineTotal: lineTotal,
		})
	}

	total := subtotal.Add(tax)

	purchase := model.Purchase{
		SupplierID: supplierID,
		Subtotal:   subtotal,
		Tax:        tax,
		Total:      total,
		Notes:      req.Notes,
	}
	for _, r := range resolved {
		purchase.Items = append(purchase.Items, model.PurchaseItem{
			ProductID: r.productID,
			Quantity:  r.quantity,
			Cost:      r.cost,
			LineTotal: r.lineTotal,
		})
	}

	txErr := runTx(ctx, s.purchases.DB(), func(tx *gorm.DB) error {
		if err := s.purchases.CreateTx(tx, &purchase); err != nil {
			return err
		}
		for _, r := range resolved {
			if err := s.products.AdjustStockTx(tx, r.productID, r.quantity); err != nil {
				return err
			}
			ref := purchase.ID
			mov := &model.StockMovement{
				ProductID:      r.productID,
				Type:           model.MovementPurchase,
				QuantityChange: r.quantity,
				Reason:         "Purchase",
				RefID:          &ref,
			}
			if err := s.movements.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.PurchaseResult{
		ID:       purchase.ID.String(),
		Subtotal: subtotal,
		Tax:      tax,
		Total:    total,
	}, nil
}

// ── AdjustStock ───────────────────────────────────────────────────────────────
// Manual correction: signed delta, movement type "adjustment". Negative deltas
// use the same guarded decrement as sales so stock never goes below zero.

func (s *ledgerService) AdjustStock(ctx context.Context, productID uuid.UUID, req dto.AdjustStockRequest) (*dto.AdjustStockResponse, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("product")
		}
		return nil, err
	}

	reason := req.Reason
	if reason == "" {
		reason = "Adjustment"
	}

	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		if req.Delta < 0 {
			ok, err := s.products.DecrementStockGuardedTx(tx, productID, -req.Delta)
			if err != nil {
				return err
			}
			if !ok {
				return apierror.InsufficientStock(p.Name)
			}
		} else {
			if err := s.products.AdjustStockTx(tx, productID, req.Delta); err != nil {
				return err
			}
		}
		mov := &model.StockMovement{
			ProductID:      productID,
			Type:           model.MovementAdjustment,
			QuantityChange: req.Delta,
			Reason:         reason,
		}
		return s.movements.CreateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil && req.Delta < 0 {
		_ = s.dispatcher.EnqueueStockAlert(ctx, productID)
	}

	updated, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.AdjustStockResponse{ID: productID.String(), Quantity: updated.Quantity}, nil
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *ledgerService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("sale")
		}
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *ledgerService) ListSales(ctx context.Context, limit int) ([]dto.SaleResponse, error) {
	sales, err := s.sales.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		out = append(out, *saleToResponse(&sales[i]))
	}
	return out, nil
}

func (s *ledgerService) GetPurchase(ctx context.Context, id uuid.UUID) (*dto.PurchaseResponse, error) {
	purchase, err := s.purchases.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("purchase")
		}
		return nil, err
	}
	return purchaseToResponse(purchase), nil
}

func (s *ledgerService) ListPurchases(ctx context.Context, limit int) ([]dto.PurchaseResponse, error) {
	purchases, err := s.purchases.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseResponse, 0, len(purchases))
	for i := range purchases {
		out = append(out, *purchaseToResponse(&purchases[i]))
	}
	return out, nil
}

func (s *ledgerService) ListMovements(ctx context.Context, filter dto.MovementFilter) ([]dto.MovementResponse, error) {
	repoFilter := repository.MovementFilter{Type: filter.Type, Limit: filter.Limit}
	if filter.ProductID != "" {
		pid, err := uuid.Parse(filter.ProductID)
		if err != nil {
			return nil, apierror.InvalidID("product_id")
		}
		repoFilter.ProductID = &pid
	}
	movements, err := s.movements.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		resp := dto.MovementResponse{
			ID:             m.ID.String(),
			ProductID:      m.ProductID.String(),
			Type:           m.Type,
			QuantityChange: m.QuantityChange,
			Reason:         m.Reason,
			CreatedAt:      m.CreatedAt.Format(time.RFC3339),
		}
		if m.RefID != nil {
			ref := m.RefID.String()
			resp.RefID = &ref
		}
		out = append(out, resp)
	}
	return out, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func parseOptionalID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, apierror.InvalidID(field)
	}
	return &id, nil
}

func optionalAmount(raw *decimal.Decimal, field string) (decimal.Decimal, error) {
	if raw == nil {
		return decimal.Zero, nil
	}
	if raw.IsNegative() {
		return decimal.Zero, apierror.Invalid(field + " must be >= 0")
	}
	return *raw, nil
}

func lineTotalOrDerive(supplied *decimal.Decimal, quantity int, unit decimal.Decimal) (decimal.Decimal, error) {
	if supplied != nil {
		if supplied.IsNegative() {
			return decimal.Zero, apierror.Invalid("line_total must be >= 0")
		}
		return *supplied, nil
	}
	return unit.Mul(decimal.NewFromInt(int64(quantity))), nil
}

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID: item.ProductID.String(),
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
			LineTotal: item.LineTotal,
		})
	}
	resp := &dto.SaleResponse{
		ID:        s.ID.String(),
		Items:     items,
		Subtotal:  s.Subtotal,
		Tax:       s.Tax,
		Total:     s.Total,
		Notes:     s.Notes,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
	if s.CustomerID != nil {
		id := s.CustomerID.String()
		resp.CustomerID = &id
	}
	return resp
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, dto.PurchaseItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			Cost:      item.Cost,
			LineTotal: item.LineTotal,
		})
	}
	resp := &dto.PurchaseResponse{
		ID:        p.ID.String(),
		Items:     items,
		Subtotal:  p.Subtotal,
		Tax:       p.Tax,
		Total:     p.Total,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
	if p.SupplierID != nil {
		id := p.SupplierID.String()
		resp.SupplierID = &id
	}
	return resp
}
