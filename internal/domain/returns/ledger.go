package returns

import (
	"github.com/jhoicas/returns-api/internal/domain"
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ReturnedQuantity suma las cantidades devueltas contra la línea de compra indicada.
func ReturnedQuantity(purchaseID string, existing []*entity.PurchaseReturn) decimal.Decimal {
	total := decimal.Zero
	for _, r := range existing {
		if r == nil || r.OriginalPurchaseID != purchaseID {
			continue
		}
		for _, it := range r.Items {
			total = total.Add(it.Quantity)
		}
	}
	return total
}

// RemainingQuantity = cantidad comprada - cantidad ya devuelta.
// Un resultado negativo es una violación de integridad y se reporta, no se recorta a cero.
func RemainingQuantity(line *entity.PurchaseLine, existing []*entity.PurchaseReturn) (decimal.Decimal, error) {
	if line == nil {
		return decimal.Zero, domain.NewIntegrityError("remaining_quantity", "línea de compra inexistente")
	}
	remaining := line.Quantity.Sub(ReturnedQuantity(line.ID, existing))
	if remaining.IsNegative() {
		return decimal.Zero, domain.NewIntegrityError("remaining_quantity",
			"la compra %s tiene devuelto más de lo comprado (remanente %s)", line.ID, remaining.String())
	}
	return remaining, nil
}

// ReturnedSaleItem suma lo devuelto de un producto contra una venta.
func ReturnedSaleItem(saleID, productID string, existing []*entity.SaleReturn) decimal.Decimal {
	total := decimal.Zero
	for _, r := range existing {
		if r == nil || r.OriginalSaleID != saleID {
			continue
		}
		for _, it := range r.Items {
			if it.ProductID == productID {
				total = total.Add(it.Quantity)
			}
		}
	}
	return total
}

// RemainingSaleItem cantidad aún devolvible de un producto de la venta.
func RemainingSaleItem(sale *entity.SaleRecord, productID string, existing []*entity.SaleReturn) (decimal.Decimal, error) {
	if sale == nil {
		return decimal.Zero, domain.NewIntegrityError("remaining_sale_item", "venta inexistente")
	}
	sold := decimal.Zero
	found := false
	for _, it := range sale.Items {
		if it.ProductID == productID {
			sold = sold.Add(it.Quantity)
			found = true
		}
	}
	if !found {
		return decimal.Zero, domain.NewIntegrityError("remaining_sale_item",
			"el producto %s no pertenece a la venta %s", productID, sale.SaleID)
	}
	remaining := sold.Sub(ReturnedSaleItem(sale.SaleID, productID, existing))
	if remaining.IsNegative() {
		return decimal.Zero, domain.NewIntegrityError("remaining_sale_item",
			"la venta %s tiene devuelto más de lo vendido del producto %s", sale.SaleID, productID)
	}
	return remaining, nil
}

// SaleReadModel campos derivados de una venta a partir de sus devoluciones.
type SaleReadModel struct {
	TotalReturned decimal.Decimal
	NetTotal      decimal.Decimal
	HasReturns    bool
}

// SaleTotals recalcula total devuelto, neto y bandera de devoluciones de una venta.
func SaleTotals(sale *entity.SaleRecord, existing []*entity.SaleReturn) (SaleReadModel, error) {
	if sale == nil {
		return SaleReadModel{}, domain.NewIntegrityError("sale_totals", "venta inexistente")
	}
	returned := decimal.Zero
	for _, r := range existing {
		if r == nil || r.OriginalSaleID != sale.SaleID {
			continue
		}
		returned = returned.Add(r.TotalCreditAmount)
	}
	net := sale.GrandTotal.Sub(returned)
	if net.IsNegative() {
		return SaleReadModel{}, domain.NewIntegrityError("sale_totals",
			"lo acreditado (%s) supera el total de la venta %s (%s)", returned.String(), sale.SaleID, sale.GrandTotal.String())
	}
	return SaleReadModel{
		TotalReturned: returned,
		NetTotal:      net,
		HasReturns:    returned.IsPositive(),
	}, nil
}

// Apply copia el modelo de lectura sobre la venta.
func (m SaleReadModel) Apply(sale *entity.SaleRecord) {
	net := m.NetTotal
	sale.TotalReturned = m.TotalReturned
	sale.NetTotal = &net
	sale.HasReturns = m.HasReturns
}
