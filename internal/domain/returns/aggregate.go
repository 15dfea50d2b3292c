package returns

import (
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PurchaseReturnSummary totales de listado para devoluciones de compra.
type PurchaseReturnSummary struct {
	Count             int
	TotalCreditAmount decimal.Decimal
	AverageCredit     decimal.Decimal
	UniqueSuppliers   int
}

// SaleReturnSummary totales de listado para devoluciones de venta.
type SaleReturnSummary struct {
	Count             int
	TotalCreditAmount decimal.Decimal
	AverageCredit     decimal.Decimal
	UniqueSales       int
}

// SalesSummary totales de listado para ventas, con el efecto de sus devoluciones.
type SalesSummary struct {
	Count            int
	TotalGross       decimal.Decimal
	TotalReturned    decimal.Decimal
	TotalNet         decimal.Decimal
	AverageNet       decimal.Decimal
	CountWithReturns int
}

// AggregatePurchaseReturns recorre la colección una vez sin modificarla.
// Entradas nil se ignoran; proveedores vacíos no cuentan como proveedor distinto.
func AggregatePurchaseReturns(list []*entity.PurchaseReturn) PurchaseReturnSummary {
	total := decimal.Zero
	count := 0
	suppliers := make(map[string]struct{})
	for _, r := range list {
		if r == nil {
			continue
		}
		count++
		total = total.Add(r.TotalCreditAmount)
		if r.SupplierID != "" {
			suppliers[r.SupplierID] = struct{}{}
		}
	}
	return PurchaseReturnSummary{
		Count:             count,
		TotalCreditAmount: Display(total),
		AverageCredit:     average(total, count),
		UniqueSuppliers:   len(suppliers),
	}
}

// AggregateSaleReturns análogo a AggregatePurchaseReturns; cuenta ventas distintas.
func AggregateSaleReturns(list []*entity.SaleReturn) SaleReturnSummary {
	total := decimal.Zero
	count := 0
	sales := make(map[string]struct{})
	for _, r := range list {
		if r == nil {
			continue
		}
		count++
		total = total.Add(r.TotalCreditAmount)
		if r.OriginalSaleID != "" {
			sales[r.OriginalSaleID] = struct{}{}
		}
	}
	return SaleReturnSummary{
		Count:             count,
		TotalCreditAmount: Display(total),
		AverageCredit:     average(total, count),
		UniqueSales:       len(sales),
	}
}

// AggregateSales totaliza bruto, devuelto y neto. NetTotal ausente cae a GrandTotal.
func AggregateSales(list []*entity.SaleRecord) SalesSummary {
	var s SalesSummary
	gross, returned, net := decimal.Zero, decimal.Zero, decimal.Zero
	for _, sale := range list {
		if sale == nil {
			continue
		}
		s.Count++
		gross = gross.Add(sale.GrandTotal)
		returned = returned.Add(sale.TotalReturned)
		net = net.Add(sale.EffectiveNetTotal())
		if sale.HasReturns {
			s.CountWithReturns++
		}
	}
	s.TotalGross = Display(gross)
	s.TotalReturned = Display(returned)
	s.TotalNet = Display(net)
	s.AverageNet = average(net, s.Count)
	return s
}

// average = total / count redondeado; 0 si count es 0.
func average(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return Display(total.Div(decimal.NewFromInt(int64(count))))
}
