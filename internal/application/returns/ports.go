package returns

import (
	"context"

	"github.com/jhoicas/returns-api/internal/domain/repository"
)

// Session identidad del usuario que actúa, provista por la capa de autenticación.
// Se pasa explícitamente en cada solicitud; el núcleo no guarda estado de sesión.
type Session interface {
	CurrentUserLabel() string
}

// StaticSession Session con una etiqueta fija.
type StaticSession string

// CurrentUserLabel implementa Session.
func (s StaticSession) CurrentUserLabel() string { return string(s) }

// TxRunner ejecuta una función dentro de una transacción del almacén, pasando repositorios atados a ella.
// Las lecturas de la transacción padre se hacen con bloqueo (GetByIDForUpdate) para que dos
// devoluciones concurrentes contra el mismo padre se serialicen. Si fn devuelve error no queda
// ningún efecto visible.
type TxRunner interface {
	RunPurchaseReturn(ctx context.Context, fn func(
		purchaseRepo repository.PurchaseRepository,
		returnRepo repository.PurchaseReturnRepository,
		productRepo repository.ProductRepository,
	) error) error
	RunSaleReturn(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		returnRepo repository.SaleReturnRepository,
		productRepo repository.ProductRepository,
	) error) error
}
