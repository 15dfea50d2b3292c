package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/returns-api/internal/domain"
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/domain/repository"
	"github.com/jhoicas/returns-api/internal/infrastructure/memory"
)

func newStore() *memory.Store {
	s := memory.New()
	s.AddPurchase(entity.PurchaseLine{ID: "pur-1", ProductID: "prod-1", Quantity: decimal.NewFromInt(10), SupplierID: "sup-1"})
	return s
}

func TestRunPurchaseReturn_ErrorDescartaCambios(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunPurchaseReturn(ctx, func(p repository.PurchaseRepository, r repository.PurchaseReturnRepository, _ repository.ProductRepository) error {
		_, err := r.Create(ctx, &entity.PurchaseReturn{OriginalPurchaseID: "pur-1"})
		require.NoError(t, err)
		require.NoError(t, p.UpdateReturnTotals(ctx, "pur-1", decimal.NewFromInt(1), decimal.NewFromInt(9)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := s.PurchaseReturns().ListByPurchase(ctx, "pur-1")
	require.NoError(t, err)
	assert.Empty(t, list)
	line, err := s.Purchases().GetByID(ctx, "pur-1")
	require.NoError(t, err)
	assert.Equal(t, "10", line.RemainingQuantity.String())
	assert.Equal(t, memory.Stats{PurchaseReturnInserts: 1, Rollbacks: 1}, s.Stats())
}

func TestRunPurchaseReturn_CommitAsignaID(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	var id string
	err := s.RunPurchaseReturn(ctx, func(_ repository.PurchaseRepository, r repository.PurchaseReturnRepository, _ repository.ProductRepository) error {
		var err error
		id, err = r.Create(ctx, &entity.PurchaseReturn{OriginalPurchaseID: "pur-1", Items: []entity.ReturnItem{{ProductID: "prod-1"}}})
		return err
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	list, err := s.PurchaseReturns().ListByPurchase(ctx, "pur-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ReturnID)

	// Las lecturas devuelven copias.
	list[0].Items[0].ProductID = "otro"
	again, _ := s.PurchaseReturns().ListByPurchase(ctx, "pur-1")
	assert.Equal(t, "prod-1", again[0].Items[0].ProductID)
}

func TestRun_ContextoCancelado(t *testing.T) {
	s := newStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := s.RunSaleReturn(ctx, func(repository.SaleRepository, repository.SaleReturnRepository, repository.ProductRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestPurchaseReturnRepo_ListFiltraYPagina(t *testing.T) {
	s := newStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := s.PurchaseReturns()
	for i, sup := range []string{"sup-1", "sup-2", "sup-1"} {
		_, err := repo.Create(ctx, &entity.PurchaseReturn{
			ReturnID:           "r" + string(rune('a'+i)),
			OriginalPurchaseID: "pur-1",
			SupplierID:         sup,
			CreatedAt:          base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, repository.ReturnFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "rc", all[0].ReturnID, "más recientes primero")

	sup1, err := repo.List(ctx, repository.ReturnFilter{SupplierID: "sup-1"})
	require.NoError(t, err)
	assert.Len(t, sup1, 2)

	from := base.AddDate(0, 0, 1)
	recent, err := repo.List(ctx, repository.ReturnFilter{From: &from})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	paged, err := repo.List(ctx, repository.ReturnFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "rb", paged[0].ReturnID)

	beyond, err := repo.List(ctx, repository.ReturnFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestUserRepo_EmailUnico(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	require.NoError(t, s.Users().Create(ctx, &entity.User{Email: "ana@local", Role: entity.RoleAdmin}))
	err := s.Users().Create(ctx, &entity.User{Email: "ANA@local"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	u, err := s.Users().GetByEmail(ctx, "Ana@Local")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEmpty(t, u.ID)

	missing, err := s.Users().GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestNewSeeded(t *testing.T) {
	s, err := memory.NewSeeded("secreto")
	require.NoError(t, err)
	ctx := context.Background()

	line, err := s.Purchases().GetByID(ctx, "pur-0001")
	require.NoError(t, err)
	require.NotNil(t, line)
	assert.True(t, line.RemainingQuantity.Equal(line.Quantity))

	sale, err := s.Sales().GetByID(ctx, "sale-0001")
	require.NoError(t, err)
	require.NotNil(t, sale)
	var sum decimal.Decimal
	for _, it := range sale.Items {
		sum = sum.Add(it.LineTotal)
	}
	assert.True(t, sum.Equal(sale.GrandTotal))

	admin, err := s.Users().GetByEmail(ctx, "admin@local")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)

	_, err = memory.NewSeeded("")
	assert.Error(t, err)
}
