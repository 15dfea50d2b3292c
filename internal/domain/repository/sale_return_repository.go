package repository

import (
	"context"

	"github.com/jhoicas/returns-api/internal/domain/entity"
)

// SaleReturnRepository define el puerto de persistencia para devoluciones de venta.
type SaleReturnRepository interface {
	Create(ctx context.Context, ret *entity.SaleReturn) (string, error)
	List(ctx context.Context, filter ReturnFilter) ([]*entity.SaleReturn, error)
	ListBySale(ctx context.Context, saleID string) ([]*entity.SaleReturn, error)
}
