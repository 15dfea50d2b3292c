package returns

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.Spanish)

const (
	msgNoPurchaseSelected = "seleccione la compra a devolver"
	msgNoSaleSelected     = "seleccione la venta y al menos un producto a devolver"
	msgInvalidQuantity    = "la cantidad debe ser un número mayor que cero"
)

func msgProductNotInSale(productID string) string {
	return printer.Sprintf("el producto %s no pertenece a la venta", productID)
}

func msgExceedsAvailable(limit decimal.Decimal) string {
	return printer.Sprintf("la cantidad solicitada excede la disponible (máximo %v)",
		number.Decimal(limit.InexactFloat64(), number.MaxFractionDigits(4)))
}

func msgExceedsCreditable(amount decimal.Decimal) string {
	return printer.Sprintf("el crédito solicitado excede lo que queda por acreditar de la venta (máximo %v)",
		number.Decimal(amount.InexactFloat64(), number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
