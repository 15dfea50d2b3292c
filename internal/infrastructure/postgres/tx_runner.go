package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/returns-api/internal/application/returns"
	"github.com/jhoicas/returns-api/internal/domain/repository"
)

// Ensure TxRunner implements returns.TxRunner.
var _ returns.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunPurchaseReturn repos de compra, devolución y catálogo atados a una misma tx.
func (r *TxRunner) RunPurchaseReturn(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	returnRepo repository.PurchaseReturnRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewPurchaseRepository(tx), NewPurchaseReturnRepository(tx), NewProductRepository(tx))
	})
}

// RunSaleReturn repos de venta, devolución y catálogo atados a una misma tx.
func (r *TxRunner) RunSaleReturn(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	returnRepo repository.SaleReturnRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewSaleRepository(tx), NewSaleReturnRepository(tx), NewProductRepository(tx))
	})
}

// RunSeed ejecuta cargas de datos maestros (ventas con ítems, compras) en una sola tx.
func (r *TxRunner) RunSeed(ctx context.Context, fn func(purchases *PurchaseRepo, sales *SaleRepo, products *ProductRepo) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewPurchaseRepository(tx), NewSaleRepository(tx), NewProductRepository(tx))
	})
}
