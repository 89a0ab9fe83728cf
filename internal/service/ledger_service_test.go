package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"shoperp/internal/apierror"
	"shoperp/internal/dto"
	"shoperp/internal/model"
	"shoperp/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledgerFixture struct {
	products  *stubProductRepo
	sales     *stubSaleRepo
	purchases *stubPurchaseRepo
	movements *stubMovementRepo
	svc       service.LedgerService
}

func newLedgerFixture() *ledgerFixture {
	f := &ledgerFixture{
		products:  newStubProductRepo(),
		sales:     newStubSaleRepo(),
		purchases: newStubPurchaseRepo(),
		movements: &stubMovementRepo{},
	}
	f.svc = service.NewLedgerService(f.sales, f.purchases, f.products, f.movements, nil)
	return f
}

func (f *ledgerFixture) addProduct(t *testing.T, sku, name string, price float64, qty int) *model.Product {
	t.Helper()
	p := &model.Product{
		SKU:      sku,
		Name:     name,
		Price:    decimal.NewFromFloat(price),
		Cost:     decimal.NewFromFloat(price / 2),
		Quantity: qty,
		IsActive: true,
	}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p
}

func saleStatus(t *testing.T, err error) int {
	t.Helper()
	var apiErr *apierror.Error
	require.True(t, errors.As(err, &apiErr), "expected *apierror.Error, got %v", err)
	return apiErr.Status
}

// ── RecordSale ──────────────────────────────────────────────────────────────

func TestRecordSale(t *testing.T) {
	f := newLedgerFixture()
	p := f.addProduct(t, "SKU-1", "Widget", 5.00, 10)

	res, err := f.svc.RecordSale(context.Background(), dto.RecordSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 3, Price: decimal.NewFromFloat(5.00)},
		},
	})
	require.NoError(t, err)

	assert.True(t, res.Subtotal.Equal(decimal.NewFromInt(15)), "subtotal = %s", res.Subtotal)
	assert.True(t, res.Tax.Equal(decimal.Zero))
	assert.True(t, res.Total.Equal(decimal.NewFromInt(15)))

	// Stock decremented and exactly one negative movement appended.
	updated, err := f.products.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	require.Len(t, f.movements.movements, 1)
	mov := f.movements.movements[0]
	assert.Equal(t, model.MovementSale, mov.Type)
	assert.Equal(t, -3, mov.QuantityChange)
	assert.Equal(t, "Sale", mov.Reason)
	require.NotNil(t, mov.RefID)
	assert.Equal(t, res.ID, mov.RefID.String())
}

func TestRecordSaleWithTax(t *testing.T) {
	f := newLedgerFixture()
	p := f.addProduct(t, "SKU-1", "Widget", 10.00, 5)

	tax := decimal.NewFromFloat(2.10)
	res, err := f.svc.RecordSale(context.Background(), dto.RecordSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 2, Price: decimal.NewFromFloat(10.00)},
		},
		Tax: &tax,
	})
	require.NoError(t, err)

	assert.True(t, res.Subtotal.Equal(decimal.NewFromInt(20)))
	assert.True(t, res.Tax.Equal(tax))
	assert.True(t, res.Total.Equal(decimal.NewFromFloat(22.10)), "total = %s", res.Total)
}

func TestRecordSaleSuppliedLineTotalPreserved(t *testing.T) {
	f := newLedgerFixture()
	p := f.addProduct(t, "SKU-1", "Widget", 10.00, 5)

	// A discounted line total must not be recomputed as quantity * price.
	discounted := decimal.NewFromFloat(18.00)
	res, err := f.svc.RecordSale(context.Background(), dto.RecordSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 2, Price: decimal.NewFromFloat(10.00), LineTotal: &discounted},
		},
	})
	require.NoError(t, err)
	assert.True(t, res.Subtotal.Equal(discounted), "subtotal = %s", res.Subtotal)

	sale, err := f.svc.GetSale(context.Background(), uuid.MustParse(res.ID))
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Items[0].LineTotal.Equal(discounted))
}

func TestRecordSaleSnapshotsProductFields(t *testing.T) {
	f := newLedgerFixture()
	p := f.addProduct(t, "SKU-7", "Gizmo", 4.00, 8)

	res, err := f.svc.RecordSale(context.Background(), dto.RecordSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(4.00)},
		},
	})
	require.NoError(t, err)

	sale, err := f.svc.GetSale(context.Background(), uuid.MustParse(res.ID))
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	require.NotNil(t, sale.Items[0].SKU)
	require.NotNil(t, sale.Items[0].Name)
	assert.Equal(t, "SKU-7", *sale.Items[0].SKU)
	assert.Equal(t, "Gizmo", *sale.Items[0].Name)
}

func TestRecordSaleInsufficientStock(t *testing.T) {
	f := newLedgerFixture()
	p := f.addProduct(t, "SKU-1", "Widget", 5.00, 2)

	_, err := f.svc.RecordSale(context.Background(), dto.RecordSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 3, Price: decimal.NewFromFloat(5.00)},
		},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, saleStatus(t, err))
	assert.Contains(t, err.Error(), "Widget")

	// Nothing written: no sale, no movement, stock untouched.
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.movements.movements)
	updated, _ := f.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 2, updated.Quantity)
}

func TestRecordSaleFailsWholeOrderOnOneBadItem(t *testing.T) {
	f := newLedgerFixture()
	ok := f.addProduct(t, "SKU-1", "Widget", 5.00, 10)
	low := f.addProduct(t, "SKU-2", "Gadget", 3.00, 1)

	_, err := f.svc.RecordSale(context.Background(), dto.RecordSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: ok.ID.String(), Quantity: 2, Price: decimal.NewFromFloat(5.00)},
			{ProductID: low.ID.String(), Quantity: 5, Price: decimal.NewFromFloat(3.00)},
		},
	})
	require.Error(t, err)

	// The valid first line must not have been applied.
	updated, _ := f.products.FindByID(context.Background(), ok.ID)
	assert.Equal(t, 10, updated.Quantity)
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.movements.movements)
}

func TestRecordSaleUnknownProduct(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.svc.RecordSale(context.Background(), dto.RecordSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: uuid.NewString(), Quantity: 1, Price: decimal.NewFromFloat(5.00)},
		},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, saleStatus(t, err))
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.movements.movements)
}

func TestRecordSaleMalformedProductID(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.svc.RecordSale(context.Background(), dto.RecordSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: "not-a-uuid", Quantity: 1, Price: decimal.NewFromFloat(5.00)},
		},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, saleStatus(t, err))
}

func TestRecordSaleMalformedCustomerID(t *testing.T) {
	f := newLedgerFixture()
	p := f.addProduct(t, "SKU-1", "Widget", 5.00, 10)

	bad := "nope"
	_, err := f.svc.RecordSale(context.Background(), dto.RecordSaleRequest{
		CustomerID: &bad,
		Items: []dto.SaleItemRequest{
			{ProductID: p.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(5.00)},
		},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, saleStatus(t, err))
}

func TestRecordSaleStoreErrorIsNotAClientError(t *testing.T) {
	f := newLedgerFixture()
	boom := errors.New("pq: connection refused")
	f.svc = service.NewLedgerService(f.sales, f.purchases,
		&failingProductRepo{stubProductRepo: f.products, err: boom}, f.movements, nil)

	_, err := f.svc.RecordSale(context.Background(), dto.RecordSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: uuid.NewString(), Quantity: 1, Price: decimal.NewFromFloat(5.00)},
		},
	})
	require.Error(t, err)

	// A store outage must surface as-is (handlers report it as a 500),
	// never remapped to "product not found".
	var apiErr *apierror.Error
	assert.False(t, errors.As(err, &apiErr), "store error was remapped to %v", err)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, f.sales.sales)
	assert.Empty(t, f.movements.movements)
}

// ── RecordPurchase ──────────────────────────────────────────────────────────

func TestRecordPurchase(t *testing.T) {
	f := newLedgerFixture()
	p := f.addProduct(t, "SKU-1", "Widget", 5.00, 10)

	res, err := f.svc.RecordPurchase(context.Background(), dto.RecordPurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: p.ID.String(), Quantity: 20, Cost: decimal.NewFromFloat(2.50)},
		},
	})
	require.NoError(t, err)

	assert.True(t, res.Subtotal.Equal(decimal.NewFromInt(50)), "subtotal = %s", res.Subtotal)
	assert.True(t, res.Total.Equal(decimal.NewFromInt(50)))

	updated, _ := f.products.FindByID(context.Background(), p.ID)
	assert.Equal(t, 30, updated.Quantity)

	require.Len(t, f.movements.movements, 1)
	mov := f.movements.movements[0]
	assert.Equal(t, model.MovementPurchase, mov.Type)
	assert.Equal(t, 20, mov.QuantityChange)
	assert.Equal(t, "Purchase", mov.Reason)
	require.NotNil(t, mov.RefID)
	assert.Equal(t, res.ID, mov.RefID.String())
}

func TestRecordPurchaseUnknownProduct(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.svc.RecordPurchase(context.Background(), dto.RecordPurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: uuid.NewString(), Quantity: 5, Cost: decimal.NewFromFloat(1.00)},
		},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, saleStatus(t, err))
	assert.Empty(t, f.purchases.purchases)
	assert.Empty(t, f.movements.movements)
}

// ── AdjustStock ─────────────────────────────────────────────────────────────

func TestAdjustStockIncrease(t *testing.T) {
	f := newLedgerFixture()
	p := f.addProduct(t, "SKU-1", "Widget", 5.00, 10)

	res, err := f.svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{Delta: 4, Reason: "Recount"})
	require.NoError(t, err)
	assert.Equal(t, 14, res.Quantity)

	require.Len(t, f.movements.movements, 1)
	assert.Equal(t, model.MovementAdjustment, f.movements.movements[0].Type)
	assert.Equal(t, 4, f.movements.movements[0].QuantityChange)
	assert.Equal(t, "Recount", f.movements.movements[0].Reason)
}

func TestAdjustStockDecreaseGuarded(t *testing.T) {
	f := newLedgerFixture()
	p := f.addProduct(t, "SKU-1", "Widget", 5.00, 3)

	// Below zero is refused and nothing is written.
	_, err := f.svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{Delta: -5})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, saleStatus(t, err))
	assert.Empty(t, f.movements.movements)

	res, err := f.svc.AdjustStock(context.Background(), p.ID, dto.AdjustStockRequest{Delta: -2})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Quantity)
	require.Len(t, f.movements.movements, 1)
	assert.Equal(t, -2, f.movements.movements[0].QuantityChange)
	assert.Equal(t, "Adjustment", f.movements.movements[0].Reason)
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.svc.AdjustStock(context.Background(), uuid.New(), dto.AdjustStockRequest{Delta: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, saleStatus(t, err))
}

// ── Reads ───────────────────────────────────────────────────────────────────

func TestGetSaleNotFound(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.svc.GetSale(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, saleStatus(t, err))
}

func TestListMovementsFiltered(t *testing.T) {
	f := newLedgerFixture()
	a := f.addProduct(t, "SKU-1", "Widget", 5.00, 10)
	b := f.addProduct(t, "SKU-2", "Gadget", 3.00, 10)

	_, err := f.svc.RecordSale(context.Background(), dto.RecordSaleRequest{
		Items: []dto.SaleItemRequest{
			{ProductID: a.ID.String(), Quantity: 1, Price: decimal.NewFromFloat(5.00)},
		},
	})
	require.NoError(t, err)
	_, err = f.svc.RecordPurchase(context.Background(), dto.RecordPurchaseRequest{
		Items: []dto.PurchaseItemRequest{
			{ProductID: b.ID.String(), Quantity: 6, Cost: decimal.NewFromFloat(1.00)},
		},
	})
	require.NoError(t, err)

	all, err := f.svc.ListMovements(context.Background(), dto.MovementFilter{Limit: 100})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	salesOnly, err := f.svc.ListMovements(context.Background(), dto.MovementFilter{Type: model.MovementSale, Limit: 100})
	require.NoError(t, err)
	require.Len(t, salesOnly, 1)
	assert.Equal(t, a.ID.String(), salesOnly[0].ProductID)

	byProduct, err := f.svc.ListMovements(context.Background(), dto.MovementFilter{ProductID: b.ID.String(), Limit: 100})
	require.NoError(t, err)
	require.Len(t, byProduct, 1)
	assert.Equal(t, model.MovementPurchase, byProduct[0].Type)
}

func TestListMovementsMalformedProductID(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.svc.ListMovements(context.Background(), dto.MovementFilter{ProductID: "junk", Limit: 100})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, saleStatus(t, err))
}
