package returns_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/returns-api/internal/application/dto"
	"github.com/jhoicas/returns-api/internal/application/returns"
	"github.com/jhoicas/returns-api/internal/domain"
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/infrastructure/memory"
	"github.com/jhoicas/returns-api/pkg/logger"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 5, 0, time.UTC)

func sequentialIDs() func() string {
	var n int64
	return func() string { return fmt.Sprintf("ret-%d", atomic.AddInt64(&n, 1)) }
}

// newPurchaseFixture almacén con la línea pur-1: 100 kg a 50 del proveedor sup-1.
func newPurchaseFixture(t *testing.T) (*memory.Store, *returns.PurchaseReturnUseCase) {
	t.Helper()
	store := memory.New()
	store.AddProduct(entity.Product{ID: "prod-1", Name: "Harina de trigo", UnitMeasure: "kg"})
	store.AddPurchase(entity.PurchaseLine{
		ID:          "pur-1",
		ProductID:   "prod-1",
		ProductName: "Harina",
		Quantity:    decimal.NewFromInt(100),
		Unit:        "kg",
		RatePerUnit: decimal.NewFromInt(50),
		SupplierID:  "sup-1",
		TotalAmount: decimal.NewFromInt(5000),
	})
	uc := returns.NewPurchaseReturnUseCase(store, store.Purchases(), store.PurchaseReturns(), logger.Nop())
	uc.SetClock(func() time.Time { return fixedNow })
	uc.SetIDGenerator(sequentialIDs())
	return store, uc
}

func purchaseReq(id, qty string) dto.ProcessPurchaseReturnRequest {
	return dto.ProcessPurchaseReturnRequest{PurchaseID: id, Quantity: dto.QuantityInput(qty)}
}

var bodega = returns.StaticSession("Bodeguero Turno A")

// ──────────────────────────────────────────────────────────────────────────────
// Process
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseReturn_Process_AceptaYActualizaRemanente(t *testing.T) {
	store, uc := newPurchaseFixture(t)
	ctx := context.Background()

	in := purchaseReq("pur-1", "30")
	in.Reason = entity.ReturnReasonDamaged
	res := uc.Process(ctx, bodega, in)

	require.True(t, res.OK, "se esperaba aceptación: %+v", res.ReturnFailure)
	require.NotNil(t, res.Record)
	assert.Equal(t, "ret-1", res.Record.ReturnID)
	assert.Equal(t, "pur-1", res.Record.OriginalPurchaseID)
	assert.Equal(t, "sup-1", res.Record.SupplierID)
	assert.Equal(t, "2026-03-14", res.Record.ReturnDate)
	assert.Equal(t, "09:30:05", res.Record.ReturnTime)
	assert.Equal(t, "Bodeguero Turno A", res.Record.ReturnedBy)
	assert.Equal(t, entity.ReturnReasonDamaged, res.Record.Reason)
	assert.Equal(t, "1500.00", res.Record.TotalCreditAmount.StringFixed(2))
	require.Len(t, res.Record.Items, 1)
	assert.Equal(t, "30", res.Record.Items[0].Quantity.String())
	assert.Equal(t, "50", res.Record.Items[0].RatePerUnit.String())

	line, err := store.Purchases().GetByID(ctx, "pur-1")
	require.NoError(t, err)
	assert.Equal(t, "70", line.RemainingQuantity.String())
	assert.Equal(t, "30", line.TotalReturned.String())

	rem, err := uc.Remaining(ctx, "pur-1")
	require.NoError(t, err)
	assert.Equal(t, "70", rem.RemainingQuantity.String())
}

func TestPurchaseReturn_Process_SegundaDevolucionExcede(t *testing.T) {
	store, uc := newPurchaseFixture(t)
	ctx := context.Background()

	require.True(t, uc.Process(ctx, bodega, purchaseReq("pur-1", "30")).OK)
	res := uc.Process(ctx, bodega, purchaseReq("pur-1", "80"))

	assert.False(t, res.OK)
	assert.Nil(t, res.Record)
	assert.Equal(t, dto.ErrorValidationFailed, res.Error)
	assert.Equal(t, domain.ReasonExceedsAvailable, res.Reason)
	require.NotNil(t, res.Max)
	assert.Equal(t, "70", res.Max.String())
	assert.NotEmpty(t, res.Message)
	assert.Equal(t, 1, store.Stats().PurchaseReturnInserts, "el rechazo no escribe")
}

func TestPurchaseReturn_Process_RechazosNoTocanElAlmacen(t *testing.T) {
	cases := []struct {
		name   string
		in     dto.ProcessPurchaseReturnRequest
		reason string
	}{
		{"sin compra", purchaseReq("", "5"), domain.ReasonNoItemSelected},
		{"cantidad cero", purchaseReq("pur-1", "0"), domain.ReasonInvalidQuantity},
		{"cantidad negativa", purchaseReq("pur-1", "-1"), domain.ReasonInvalidQuantity},
		{"no numérica", purchaseReq("pur-1", "abc"), domain.ReasonInvalidQuantity},
		{"vacía", purchaseReq("pur-1", ""), domain.ReasonInvalidQuantity},
		{"excede", purchaseReq("pur-1", "100.01"), domain.ReasonExceedsAvailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, uc := newPurchaseFixture(t)
			res := uc.Process(context.Background(), bodega, tc.in)
			assert.False(t, res.OK)
			assert.Equal(t, dto.ErrorValidationFailed, res.Error)
			assert.Equal(t, tc.reason, res.Reason)
			assert.Zero(t, store.Stats().PurchaseReturnInserts)
			assert.Zero(t, store.Stats().Commits)
		})
	}
}

func TestPurchaseReturn_Process_DevuelveTodoElRemanente(t *testing.T) {
	store, uc := newPurchaseFixture(t)
	ctx := context.Background()

	res := uc.Process(ctx, bodega, purchaseReq("pur-1", "100"))
	require.True(t, res.OK)
	line, err := store.Purchases().GetByID(ctx, "pur-1")
	require.NoError(t, err)
	assert.True(t, line.RemainingQuantity.IsZero())

	res = uc.Process(ctx, bodega, purchaseReq("pur-1", "0.001"))
	assert.Equal(t, domain.ReasonExceedsAvailable, res.Reason)
	require.NotNil(t, res.Max)
	assert.True(t, res.Max.IsZero())
}

func TestPurchaseReturn_Process_CompraInexistenteEsIntegridad(t *testing.T) {
	store, uc := newPurchaseFixture(t)
	res := uc.Process(context.Background(), bodega, purchaseReq("pur-404", "1"))

	assert.False(t, res.OK)
	assert.Equal(t, dto.ErrorIntegrity, res.Error)
	assert.Contains(t, res.Message, "pur-404")
	assert.Zero(t, store.Stats().PurchaseReturnInserts)
}

func TestPurchaseReturn_Process_FalloDeAlmacenEsPersistencia(t *testing.T) {
	store, uc := newPurchaseFixture(t)
	ctx := context.Background()
	store.FailInserts(errors.New("conexión rechazada"))

	res := uc.Process(ctx, bodega, purchaseReq("pur-1", "10"))
	assert.False(t, res.OK)
	assert.Equal(t, dto.ErrorPersistence, res.Error)
	assert.Contains(t, res.Message, "conexión rechazada")

	// Nada visible tras el rollback.
	line, err := store.Purchases().GetByID(ctx, "pur-1")
	require.NoError(t, err)
	assert.True(t, line.TotalReturned.IsZero())
	list, err := store.PurchaseReturns().ListByPurchase(ctx, "pur-1")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 1, store.Stats().Rollbacks)

	// El caller puede reintentar.
	store.FailInserts(nil)
	assert.True(t, uc.Process(ctx, bodega, purchaseReq("pur-1", "10")).OK)
}

func TestPurchaseReturn_Process_CopiaNombreDelCatalogo(t *testing.T) {
	store, uc := newPurchaseFixture(t)
	ctx := context.Background()

	res := uc.Process(ctx, bodega, purchaseReq("pur-1", "1"))
	require.True(t, res.OK)
	assert.Equal(t, "Harina de trigo", res.Record.Items[0].ProductName)

	// Editar el catálogo no altera el historial.
	store.AddProduct(entity.Product{ID: "prod-1", Name: "Harina integral"})
	list, err := uc.List(ctx, dto.ReturnListRequest{ParentID: "pur-1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Harina de trigo", list[0].Items[0].ProductName)
}

func TestPurchaseReturn_Process_ConcurrentesNoSobrepasanLoComprado(t *testing.T) {
	store, uc := newPurchaseFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var accepted int64
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if uc.Process(ctx, bodega, purchaseReq("pur-1", "30")).OK {
				atomic.AddInt64(&accepted, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(3), accepted)
	line, err := store.Purchases().GetByID(ctx, "pur-1")
	require.NoError(t, err)
	assert.Equal(t, "10", line.RemainingQuantity.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Validate, Remaining, List, Summary
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseReturn_Validate_NoEscribe(t *testing.T) {
	store, uc := newPurchaseFixture(t)
	ctx := context.Background()

	ok, err := uc.Validate(ctx, dto.ValidatePurchaseReturnRequest{PurchaseID: "pur-1", Quantity: "30"})
	require.NoError(t, err)
	assert.True(t, ok.OK)

	bad, err := uc.Validate(ctx, dto.ValidatePurchaseReturnRequest{PurchaseID: "pur-1", Quantity: "101"})
	require.NoError(t, err)
	assert.False(t, bad.OK)
	assert.Equal(t, domain.ReasonExceedsAvailable, bad.Reason)
	assert.Equal(t, "100", bad.Max.String())

	none, err := uc.Validate(ctx, dto.ValidatePurchaseReturnRequest{Quantity: "1"})
	require.NoError(t, err)
	assert.Equal(t, domain.ReasonNoItemSelected, none.Reason)

	assert.Zero(t, store.Stats().PurchaseReturnInserts)
}

func TestPurchaseReturn_Validate_CompraInexistente(t *testing.T) {
	_, uc := newPurchaseFixture(t)
	_, err := uc.Validate(context.Background(), dto.ValidatePurchaseReturnRequest{PurchaseID: "nope", Quantity: "1"})
	_, ok := domain.AsIntegrity(err)
	assert.True(t, ok)
}

func TestPurchaseReturn_Summary(t *testing.T) {
	store, uc := newPurchaseFixture(t)
	ctx := context.Background()
	store.AddPurchase(entity.PurchaseLine{
		ID: "pur-2", ProductID: "prod-1", Quantity: decimal.NewFromInt(10),
		Unit: "kg", RatePerUnit: decimal.NewFromInt(100), SupplierID: "sup-2",
	})

	require.True(t, uc.Process(ctx, bodega, purchaseReq("pur-1", "4")).OK) // 200
	require.True(t, uc.Process(ctx, bodega, purchaseReq("pur-1", "6")).OK) // 300
	require.True(t, uc.Process(ctx, bodega, purchaseReq("pur-2", "5")).OK) // 500

	s, err := uc.Summary(ctx, dto.ReturnListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, "1000.00", s.TotalCreditAmount.StringFixed(2))
	assert.Equal(t, "333.33", s.AverageCredit.StringFixed(2))
	assert.Equal(t, 2, s.UniqueSuppliers)

	bySupplier, err := uc.List(ctx, dto.ReturnListRequest{SupplierID: "sup-2"})
	require.NoError(t, err)
	assert.Len(t, bySupplier, 1)
}

func TestPurchaseReturn_List_PeriodoInvalido(t *testing.T) {
	_, uc := newPurchaseFixture(t)
	_, err := uc.List(context.Background(), dto.ReturnListRequest{From: "14/03/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.List(context.Background(), dto.ReturnListRequest{From: "2026-03-15", To: "2026-03-14"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchaseReturn_Summary_SinDevoluciones(t *testing.T) {
	_, uc := newPurchaseFixture(t)
	s, err := uc.Summary(context.Background(), dto.ReturnListRequest{From: "2026-03-14", To: "2026-03-14"})
	require.NoError(t, err)
	assert.Zero(t, s.Count)
	assert.True(t, s.TotalCreditAmount.IsZero())
	assert.True(t, s.AverageCredit.IsZero())
}
