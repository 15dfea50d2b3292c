package dto

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// QuantityInput cantidad tal como la digita el usuario. Acepta número o string JSON;
// cualquier otro valor se conserva crudo y la validación lo rechaza como InvalidQuantity.
type QuantityInput string

// UnmarshalJSON implementa json.Unmarshaler.
func (q *QuantityInput) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*q = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*q = QuantityInput(str)
		return nil
	}
	*q = QuantityInput(s)
	return nil
}

// Códigos de error de ProcessReturnResult.
const (
	ErrorValidationFailed = "ValidationFailed"
	ErrorIntegrity        = "IntegrityError"
	ErrorPersistence      = "PersistenceError"
)

// ValidatePurchaseReturnRequest body para POST /api/purchase-returns/validate.
type ValidatePurchaseReturnRequest struct {
	PurchaseID string        `json:"purchase_id"`
	Quantity   QuantityInput `json:"quantity"`
}

// ProcessPurchaseReturnRequest body para POST /api/purchase-returns.
type ProcessPurchaseReturnRequest struct {
	PurchaseID string        `json:"purchase_id"`
	Quantity   QuantityInput `json:"quantity"`
	Reason     string        `json:"reason,omitempty" validate:"omitempty,oneof=damaged defective expired wrong_item excess other"`
	Notes      string        `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ValidationResult resultado de validar una devolución sin persistirla.
type ValidationResult struct {
	OK      bool             `json:"ok"`
	Reason  string           `json:"reason,omitempty"` // NoItemSelected | InvalidQuantity | ExceedsAvailable
	Max     *decimal.Decimal `json:"max,omitempty"`
	Message string           `json:"message,omitempty"`
}

// ReturnFailure detalle de una devolución no procesada.
type ReturnFailure struct {
	Error   string           `json:"error,omitempty"` // ValidationFailed | IntegrityError | PersistenceError
	Reason  string           `json:"reason,omitempty"`
	Max     *decimal.Decimal `json:"max,omitempty"`
	Message string           `json:"message,omitempty"`
}

// ReturnItemDTO ítem devuelto (copia puntual).
type ReturnItemDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	RatePerUnit decimal.Decimal `json:"rate_per_unit"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PurchaseReturnDTO salida de una devolución de compra.
type PurchaseReturnDTO struct {
	ReturnID           string          `json:"return_id"`
	OriginalPurchaseID string          `json:"original_purchase_id"`
	ReturnDate         string          `json:"return_date"`
	ReturnTime         string          `json:"return_time"`
	ReturnedBy         string          `json:"returned_by"`
	SupplierID         string          `json:"supplier_id"`
	Reason             string          `json:"reason,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	Items              []ReturnItemDTO `json:"items"`
	TotalCreditAmount  decimal.Decimal `json:"total_credit_amount"`
}

// ProcessPurchaseReturnResult respuesta de POST /api/purchase-returns.
type ProcessPurchaseReturnResult struct {
	OK     bool               `json:"ok"`
	Record *PurchaseReturnDTO `json:"record,omitempty"`
	ReturnFailure
}

// RemainingQuantityDTO respuesta de GET /api/purchases/:id/remaining.
type RemainingQuantityDTO struct {
	PurchaseID        string          `json:"purchase_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	TotalReturned     decimal.Decimal `json:"total_returned"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	Unit              string          `json:"unit"`
}

// ReturnListRequest filtros de GET /api/purchase-returns y /api/sale-returns. Fechas en YYYY-MM-DD.
type ReturnListRequest struct {
	ParentID   string `query:"parent_id"`
	SupplierID string `query:"supplier_id"`
	From       string `query:"from"`
	To         string `query:"to"`
	PageRequest
}

// PurchaseReturnSummaryDTO respuesta de GET /api/purchase-returns/summary.
type PurchaseReturnSummaryDTO struct {
	Count             int             `json:"count"`
	TotalCreditAmount decimal.Decimal `json:"total_credit_amount"`
	AverageCredit     decimal.Decimal `json:"average_credit"`
	UniqueSuppliers   int             `json:"unique_suppliers"`
}

// SaleReturnLineRequest producto y cantidad de una devolución de venta.
type SaleReturnLineRequest struct {
	ProductID string        `json:"product_id"`
	Quantity  QuantityInput `json:"quantity"`
}

// ValidateSaleReturnRequest body para POST /api/sale-returns/validate.
type ValidateSaleReturnRequest struct {
	SaleID string                  `json:"sale_id"`
	Items  []SaleReturnLineRequest `json:"items"`
}

// ProcessSaleReturnRequest body para POST /api/sale-returns.
type ProcessSaleReturnRequest struct {
	SaleID string                  `json:"sale_id"`
	Items  []SaleReturnLineRequest `json:"items"`
	Reason string                  `json:"reason,omitempty" validate:"omitempty,oneof=damaged defective expired wrong_item excess other"`
	Notes  string                  `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// SaleReturnDTO salida de una devolución de venta.
type SaleReturnDTO struct {
	ReturnID          string          `json:"return_id"`
	OriginalSaleID    string          `json:"original_sale_id"`
	ReturnDate        string          `json:"return_date"`
	ReturnTime        string          `json:"return_time"`
	ReturnedBy        string          `json:"returned_by"`
	Reason            string          `json:"reason,omitempty"`
	Notes             string          `json:"notes,omitempty"`
	Items             []ReturnItemDTO `json:"items"`
	TotalCreditAmount decimal.Decimal `json:"total_credit_amount"`
}

// ProcessSaleReturnResult respuesta de POST /api/sale-returns.
type ProcessSaleReturnResult struct {
	OK     bool           `json:"ok"`
	Record *SaleReturnDTO `json:"record,omitempty"`
	ReturnFailure
}

// SaleReturnSummaryDTO respuesta de GET /api/sale-returns/summary.
type SaleReturnSummaryDTO struct {
	Count             int             `json:"count"`
	TotalCreditAmount decimal.Decimal `json:"total_credit_amount"`
	AverageCredit     decimal.Decimal `json:"average_credit"`
	UniqueSales       int             `json:"unique_sales"`
}
