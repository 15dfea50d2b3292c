package returns

import (
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// MoneyPlaces decimales con los que se presentan los montos.
const MoneyPlaces = 2

// Credit monto a acreditar por un ítem: cantidad * tarifa, sin redondear.
func Credit(quantity, ratePerUnit decimal.Decimal) decimal.Decimal {
	return quantity.Mul(ratePerUnit)
}

// TotalCredit suma Credit de todos los ítems con precisión completa y redondea una sola vez.
// Nunca redondear por ítem y luego sumar: el error se acumula.
func TotalCredit(items []entity.ReturnItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(Credit(it.Quantity, it.RatePerUnit))
	}
	return Display(sum)
}

// Display redondea un monto a MoneyPlaces para mostrarlo.
func Display(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MoneyPlaces)
}

// NewReturnItem construye la copia puntual de un ítem devuelto con su LineTotal.
func NewReturnItem(productID, productName, unit string, quantity, ratePerUnit decimal.Decimal) entity.ReturnItem {
	return entity.ReturnItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		Unit:        unit,
		RatePerUnit: ratePerUnit,
		LineTotal:   Credit(quantity, ratePerUnit),
	}
}
