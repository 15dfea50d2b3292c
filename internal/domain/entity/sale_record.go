package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago de una venta.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
)

// SaleItem línea de una venta, con el precio vigente al momento de vender.
type SaleItem struct {
	ProductID   string
	ProductName string
	Quantity    decimal.Decimal
	Unit        string
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// SaleRecord venta registrada en caja.
// TotalReturned, NetTotal y HasReturns son el modelo de lectura derivado de las SaleReturn asociadas;
// NetTotal nil significa "aún no calculado" y equivale a GrandTotal.
type SaleRecord struct {
	SaleID         string
	SaleDate       string
	SaleTime       string
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	Tax            decimal.Decimal
	GrandTotal     decimal.Decimal
	PaymentMethod  string
	SoldBy         string
	AmountReceived decimal.Decimal
	ChangeDue      decimal.Decimal
	Items          []SaleItem
	CreatedAt      time.Time

	TotalReturned decimal.Decimal
	NetTotal      *decimal.Decimal
	HasReturns    bool
}

// Item devuelve la línea de la venta para el producto indicado, o nil si no existe.
func (s *SaleRecord) Item(productID string) *SaleItem {
	for i := range s.Items {
		if s.Items[i].ProductID == productID {
			return &s.Items[i]
		}
	}
	return nil
}

// EffectiveNetTotal devuelve NetTotal o, si no está calculado, GrandTotal.
func (s *SaleRecord) EffectiveNetTotal() decimal.Decimal {
	if s.NetTotal != nil {
		return *s.NetTotal
	}
	return s.GrandTotal
}
