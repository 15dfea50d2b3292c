package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/returns-api/internal/domain"
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación del puerto PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, product_id, product_name, quantity, unit, rate_per_unit, supplier_id,
	total_amount, purchased_at, total_returned, remaining_quantity`

func (r *PurchaseRepo) get(ctx context.Context, query, id string) (*entity.PurchaseLine, error) {
	var p entity.PurchaseLine
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.ProductID, &p.ProductName, &p.Quantity, &p.Unit, &p.RatePerUnit, &p.SupplierID,
		&p.TotalAmount, &p.PurchasedAt, &p.TotalReturned, &p.RemainingQuantity,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return &p, nil
}

// GetByID obtiene una línea de compra por ID.
func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseLine, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene la línea con bloqueo de fila (SELECT FOR UPDATE). Usar solo dentro de una tx.
func (r *PurchaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseLine, error) {
	return r.get(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, id)
}

// UpdateReturnTotals reescribe total_returned y remaining_quantity.
func (r *PurchaseRepo) UpdateReturnTotals(ctx context.Context, id string, totalReturned, remaining decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE purchases SET total_returned = $2, remaining_quantity = $3 WHERE id = $1`,
		id, totalReturned, remaining,
	)
	if err != nil {
		return fmt.Errorf("update purchase totals: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Create persiste una línea de compra; remaining_quantity parte de la cantidad comprada.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.PurchaseLine) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchases (`+purchaseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, $4)`,
		p.ID, p.ProductID, p.ProductName, p.Quantity, p.Unit, p.RatePerUnit, p.SupplierID,
		p.TotalAmount, p.PurchasedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}
