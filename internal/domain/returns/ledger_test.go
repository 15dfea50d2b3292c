package returns_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/returns-api/internal/domain"
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/domain/returns"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func purchaseLine() *entity.PurchaseLine {
	return &entity.PurchaseLine{
		ID:          "pur-1",
		ProductID:   "prod-1",
		ProductName: "Harina",
		Quantity:    dec("100"),
		Unit:        "kg",
		RatePerUnit: dec("50"),
		SupplierID:  "sup-1",
		TotalAmount: dec("5000"),
	}
}

func purchaseReturn(purchaseID, qty string) *entity.PurchaseReturn {
	return &entity.PurchaseReturn{
		ReturnID:           "ret-" + qty,
		OriginalPurchaseID: purchaseID,
		Items:              []entity.ReturnItem{returns.NewReturnItem("prod-1", "Harina", "kg", dec(qty), dec("50"))},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RemainingQuantity
// ──────────────────────────────────────────────────────────────────────────────

func TestRemainingQuantity_SinDevoluciones(t *testing.T) {
	rem, err := returns.RemainingQuantity(purchaseLine(), nil)
	require.NoError(t, err)
	assert.Equal(t, "100", rem.String())
}

func TestRemainingQuantity_SecuenciaDeDevoluciones(t *testing.T) {
	line := purchaseLine()
	var existing []*entity.PurchaseReturn
	sum := decimal.Zero
	for _, q := range []string{"10", "25.5", "4.5", "60"} {
		existing = append(existing, purchaseReturn(line.ID, q))
		sum = sum.Add(dec(q))

		rem, err := returns.RemainingQuantity(line, existing)
		require.NoError(t, err)
		assert.True(t, rem.Equal(line.Quantity.Sub(sum)), "remanente = comprado - suma devuelta (esperado %s, obtenido %s)", line.Quantity.Sub(sum), rem)
		assert.False(t, rem.IsNegative())
	}
}

func TestRemainingQuantity_IgnoraDevolucionesDeOtraCompra(t *testing.T) {
	line := purchaseLine()
	existing := []*entity.PurchaseReturn{purchaseReturn("otra", "90"), purchaseReturn(line.ID, "30"), nil}
	rem, err := returns.RemainingQuantity(line, existing)
	require.NoError(t, err)
	assert.Equal(t, "70", rem.String())
}

func TestRemainingQuantity_NegativoEsErrorDeIntegridad(t *testing.T) {
	line := purchaseLine()
	existing := []*entity.PurchaseReturn{purchaseReturn(line.ID, "80"), purchaseReturn(line.ID, "30")}
	_, err := returns.RemainingQuantity(line, existing)
	require.Error(t, err)
	_, ok := domain.AsIntegrity(err)
	assert.True(t, ok, "un remanente negativo no se recorta: se reporta como IntegrityError")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func sale() *entity.SaleRecord {
	return &entity.SaleRecord{
		SaleID:     "sale-1",
		GrandTotal: dec("1000"),
		Items: []entity.SaleItem{
			{ProductID: "p-a", ProductName: "Arroz", Quantity: dec("10"), Unit: "und", UnitPrice: dec("50"), LineTotal: dec("500")},
			{ProductID: "p-b", ProductName: "Aceite", Quantity: dec("5"), Unit: "und", UnitPrice: dec("100"), LineTotal: dec("500")},
		},
	}
}

func saleReturn(saleID, productID, qty, credit string) *entity.SaleReturn {
	return &entity.SaleReturn{
		ReturnID:          "sr-" + productID + "-" + qty,
		OriginalSaleID:    saleID,
		Items:             []entity.ReturnItem{{ProductID: productID, Quantity: dec(qty)}},
		TotalCreditAmount: dec(credit),
	}
}

// Escenario: venta de 1000 con dos devoluciones que suman 150 → neto 850 y con devoluciones.
func TestSaleTotals_NetoYBandera(t *testing.T) {
	s := sale()
	existing := []*entity.SaleReturn{
		saleReturn(s.SaleID, "p-a", "1", "50"),
		saleReturn(s.SaleID, "p-b", "1", "100"),
	}
	m, err := returns.SaleTotals(s, existing)
	require.NoError(t, err)
	assert.Equal(t, "150.00", m.TotalReturned.StringFixed(2))
	assert.Equal(t, "850.00", m.NetTotal.StringFixed(2))
	assert.True(t, m.HasReturns)

	m.Apply(s)
	require.NotNil(t, s.NetTotal)
	assert.Equal(t, "850", s.NetTotal.String())
	assert.True(t, s.HasReturns)
}

func TestSaleTotals_SinDevoluciones(t *testing.T) {
	m, err := returns.SaleTotals(sale(), nil)
	require.NoError(t, err)
	assert.True(t, m.TotalReturned.IsZero())
	assert.Equal(t, "1000", m.NetTotal.String())
	assert.False(t, m.HasReturns)
}

func TestSaleTotals_CreditoMayorQueTotal(t *testing.T) {
	s := sale()
	_, err := returns.SaleTotals(s, []*entity.SaleReturn{saleReturn(s.SaleID, "p-a", "10", "1200")})
	_, ok := domain.AsIntegrity(err)
	assert.True(t, ok)
}

func TestRemainingSaleItem(t *testing.T) {
	s := sale()
	existing := []*entity.SaleReturn{
		saleReturn(s.SaleID, "p-a", "3", "150"),
		saleReturn(s.SaleID, "p-a", "2", "100"),
		saleReturn("otra", "p-a", "9", "450"),
	}
	rem, err := returns.RemainingSaleItem(s, "p-a", existing)
	require.NoError(t, err)
	assert.Equal(t, "5", rem.String())

	_, err = returns.RemainingSaleItem(s, "p-x", existing)
	_, ok := domain.AsIntegrity(err)
	assert.True(t, ok, "producto fuera de la venta")
}
