package repository

import (
	"context"
	"time"

	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SaleFilter filtros opcionales para listar ventas.
type SaleFilter struct {
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// SaleRepository define el puerto de persistencia para ventas.
type SaleRepository interface {
	GetByID(ctx context.Context, id string) (*entity.SaleRecord, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.SaleRecord, error)
	List(ctx context.Context, filter SaleFilter) ([]*entity.SaleRecord, error)
	UpdateReturnTotals(ctx context.Context, id string, totalReturned, netTotal decimal.Decimal, hasReturns bool) error
}
