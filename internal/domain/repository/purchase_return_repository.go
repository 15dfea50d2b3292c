package repository

import (
	"context"
	"time"

	"github.com/jhoicas/returns-api/internal/domain/entity"
)

// ReturnFilter filtros opcionales para listar devoluciones. ParentID es la compra o venta original.
type ReturnFilter struct {
	ParentID   string
	SupplierID string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// PurchaseReturnRepository define el puerto de persistencia para devoluciones de compra.
type PurchaseReturnRepository interface {
	// Create inserta la devolución y devuelve el ID asignado.
	Create(ctx context.Context, ret *entity.PurchaseReturn) (string, error)
	List(ctx context.Context, filter ReturnFilter) ([]*entity.PurchaseReturn, error)
	ListByPurchase(ctx context.Context, purchaseID string) ([]*entity.PurchaseReturn, error)
}
