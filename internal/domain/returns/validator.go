package returns

import (
	"strings"

	"github.com/jhoicas/returns-api/internal/domain"
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// QuantityPlaces y QuantityIntegerDigits acotan las cantidades a lo que guarda NUMERIC(18, 4).
const (
	QuantityPlaces        = 4
	QuantityIntegerDigits = 14
)

var quantityCeiling = decimal.New(1, QuantityIntegerDigits)

// ParseQuantity interpreta la cantidad digitada. Vacía, no numérica, <= 0, con más de
// QuantityPlaces decimales o fuera de rango es InvalidQuantity.
// decimal.NewFromString no acepta NaN ni Inf, por lo que todo valor aceptado es finito.
func ParseQuantity(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, invalidQuantity()
	}
	q, err := decimal.NewFromString(s)
	if err != nil || !q.IsPositive() {
		return decimal.Zero, invalidQuantity()
	}
	if !q.Equal(q.Truncate(QuantityPlaces)) || q.GreaterThanOrEqual(quantityCeiling) {
		return decimal.Zero, invalidQuantity()
	}
	return q, nil
}

// ValidatePurchaseReturn aplica las precondiciones en orden (gana el primer fallo):
//  1. debe haber línea de compra seleccionada (NoItemSelected)
//  2. la cantidad es un número positivo finito (InvalidQuantity)
//  3. la cantidad no supera el remanente según el ledger (ExceedsAvailable con Max)
//
// Devuelve la cantidad interpretada. Errores: *domain.ValidationError o, si el ledger
// detecta inconsistencia, *domain.IntegrityError.
func ValidatePurchaseReturn(line *entity.PurchaseLine, rawQuantity string, existing []*entity.PurchaseReturn) (decimal.Decimal, error) {
	if line == nil {
		return decimal.Zero, &domain.ValidationError{Reason: domain.ReasonNoItemSelected, Message: msgNoPurchaseSelected}
	}
	qty, err := ParseQuantity(rawQuantity)
	if err != nil {
		return decimal.Zero, err
	}
	remaining, err := RemainingQuantity(line, existing)
	if err != nil {
		return decimal.Zero, err
	}
	if qty.GreaterThan(remaining) {
		return decimal.Zero, exceedsAvailable(remaining)
	}
	return qty, nil
}

// SaleReturnLine producto y cantidad (cruda) solicitada en una devolución de venta.
type SaleReturnLine struct {
	ProductID string
	Quantity  string
}

// ValidatedSaleLine línea aceptada con su cantidad interpretada y la línea de venta de origen.
type ValidatedSaleLine struct {
	Item     entity.SaleItem
	Quantity decimal.Decimal
}

// ValidateSaleReturn aplica las mismas precondiciones que ValidatePurchaseReturn, por fases:
// primero selección de todas las líneas, luego cantidades, luego disponibilidad por producto
// y por último el crédito de la solicitud contra lo que queda por acreditar de la venta.
// Líneas repetidas del mismo producto se suman antes de comparar con el remanente.
func ValidateSaleReturn(sale *entity.SaleRecord, lines []SaleReturnLine, existing []*entity.SaleReturn) ([]ValidatedSaleLine, error) {
	if sale == nil || len(lines) == 0 {
		return nil, &domain.ValidationError{Reason: domain.ReasonNoItemSelected, Message: msgNoSaleSelected}
	}
	items := make([]entity.SaleItem, len(lines))
	for i, l := range lines {
		pid := strings.TrimSpace(l.ProductID)
		if pid == "" {
			return nil, &domain.ValidationError{Reason: domain.ReasonNoItemSelected, Message: msgNoSaleSelected}
		}
		it := sale.Item(pid)
		if it == nil {
			return nil, &domain.ValidationError{Reason: domain.ReasonNoItemSelected, Message: msgProductNotInSale(pid)}
		}
		items[i] = *it
	}

	out := make([]ValidatedSaleLine, len(lines))
	for i, l := range lines {
		qty, err := ParseQuantity(l.Quantity)
		if err != nil {
			return nil, err
		}
		out[i] = ValidatedSaleLine{Item: items[i], Quantity: qty}
	}

	requested := make(map[string]decimal.Decimal, len(out))
	var order []string
	for _, v := range out {
		if _, ok := requested[v.Item.ProductID]; !ok {
			order = append(order, v.Item.ProductID)
		}
		requested[v.Item.ProductID] = requested[v.Item.ProductID].Add(v.Quantity)
	}
	for _, pid := range order {
		remaining, err := RemainingSaleItem(sale, pid, existing)
		if err != nil {
			return nil, err
		}
		if requested[pid].GreaterThan(remaining) {
			return nil, exceedsAvailable(remaining)
		}
	}

	// Con descuento, devolver todo lo vendido a precio de lista puede superar lo cobrado.
	model, err := SaleTotals(sale, existing)
	if err != nil {
		return nil, err
	}
	returnItems := make([]entity.ReturnItem, 0, len(out))
	for _, v := range out {
		returnItems = append(returnItems, NewReturnItem(v.Item.ProductID, v.Item.ProductName, v.Item.Unit, v.Quantity, v.Item.UnitPrice))
	}
	if TotalCredit(returnItems).GreaterThan(model.NetTotal) {
		return nil, &domain.ValidationError{
			Reason:  domain.ReasonExceedsAvailable,
			Message: msgExceedsCreditable(model.NetTotal),
		}
	}
	return out, nil
}

func invalidQuantity() *domain.ValidationError {
	return &domain.ValidationError{Reason: domain.ReasonInvalidQuantity, Message: msgInvalidQuantity}
}

func exceedsAvailable(remaining decimal.Decimal) *domain.ValidationError {
	limit := remaining
	return &domain.ValidationError{
		Reason:  domain.ReasonExceedsAvailable,
		Max:     &limit,
		Message: msgExceedsAvailable(remaining),
	}
}
