package repository

import (
	"context"

	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PurchaseRepository define el puerto de persistencia para líneas de compra.
// GetByID y GetByIDForUpdate devuelven (nil, nil) si la línea no existe.
type PurchaseRepository interface {
	GetByID(ctx context.Context, id string) (*entity.PurchaseLine, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseLine, error)
	// UpdateReturnTotals reescribe el modelo de lectura cacheado de la línea.
	UpdateReturnTotals(ctx context.Context, id string, totalReturned, remaining decimal.Decimal) error
}
