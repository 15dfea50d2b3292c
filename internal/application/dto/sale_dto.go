package dto

import "github.com/shopspring/decimal"

// SaleItemDTO línea de venta.
type SaleItemDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleRecordDTO venta con su modelo de lectura recalculado desde las devoluciones.
type SaleRecordDTO struct {
	SaleID         string          `json:"sale_id"`
	SaleDate       string          `json:"sale_date"`
	SaleTime       string          `json:"sale_time"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Discount       decimal.Decimal `json:"discount"`
	Tax            decimal.Decimal `json:"tax"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
	PaymentMethod  string          `json:"payment_method"`
	SoldBy         string          `json:"sold_by"`
	AmountReceived decimal.Decimal `json:"amount_received"`
	ChangeDue      decimal.Decimal `json:"change_due"`
	Items          []SaleItemDTO   `json:"items"`
	TotalReturned  decimal.Decimal `json:"total_returned"`
	NetTotal       decimal.Decimal `json:"net_total"`
	HasReturns     bool            `json:"has_returns"`
}

// SaleListRequest filtros de GET /api/sales y /api/sales/summary.
type SaleListRequest struct {
	From string `query:"from"`
	To   string `query:"to"`
	PageRequest
}

// SalesSummaryDTO respuesta de GET /api/sales/summary.
type SalesSummaryDTO struct {
	Count            int             `json:"count"`
	TotalGross       decimal.Decimal `json:"total_gross"`
	TotalReturned    decimal.Decimal `json:"total_returned"`
	TotalNet         decimal.Decimal `json:"total_net"`
	AverageNet       decimal.Decimal `json:"average_net"`
	CountWithReturns int             `json:"count_with_returns"`
}
