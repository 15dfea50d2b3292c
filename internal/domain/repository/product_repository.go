package repository

import (
	"context"

	"github.com/jhoicas/returns-api/internal/domain/entity"
)

// ProductRepository define el puerto de lectura del catálogo de productos.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
