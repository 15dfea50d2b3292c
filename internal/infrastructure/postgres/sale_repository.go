package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/returns-api/internal/domain"
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas (cabecera + sale_items) sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `sale_id, to_char(sale_date, 'YYYY-MM-DD'), to_char(sale_time, 'HH24:MI:SS'), subtotal, discount, tax,
	grand_total, payment_method, sold_by, amount_received, change_due, total_returned, net_total, has_returns, created_at`

func scanSale(row pgx.Row) (*entity.SaleRecord, error) {
	var s entity.SaleRecord
	var net *decimal.Decimal
	err := row.Scan(&s.SaleID, &s.SaleDate, &s.SaleTime, &s.Subtotal, &s.Discount, &s.Tax,
		&s.GrandTotal, &s.PaymentMethod, &s.SoldBy, &s.AmountReceived, &s.ChangeDue,
		&s.TotalReturned, &net, &s.HasReturns, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.NetTotal = net
	return &s, nil
}

func (r *SaleRepo) get(ctx context.Context, query, id string) (*entity.SaleRecord, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	items, err := r.loadItems(ctx, []string{s.SaleID})
	if err != nil {
		return nil, err
	}
	s.Items = items[s.SaleID]
	return s, nil
}

// GetByID obtiene una venta con sus ítems.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.SaleRecord, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE sale_id = $1`, id)
}

// GetByIDForUpdate bloquea la fila de la venta hasta el fin de la transacción.
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.SaleRecord, error) {
	return r.get(ctx, `SELECT `+saleColumns+` FROM sales WHERE sale_id = $1 FOR UPDATE`, id)
}

// List lista ventas (más recientes primero) en un rango de fechas opcional.
func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.SaleRecord, error) {
	query := `SELECT ` + saleColumns + ` FROM sales`
	var conds []string
	var args []any
	pos := 1
	if filter.From != nil {
		conds = append(conds, fmt.Sprintf("created_at >= $%d", pos))
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		conds = append(conds, fmt.Sprintf("created_at <= $%d", pos))
		args = append(args, *filter.To)
		pos++
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, sale_id" + pageClause(filter.Limit, filter.Offset, pos, &args)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleRecord
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	items, err := r.loadItems(ctx, collectIDs(list, func(s *entity.SaleRecord) string { return s.SaleID }))
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.Items = items[s.SaleID]
	}
	return list, nil
}

// UpdateReturnTotals reescribe el modelo de lectura de la venta.
func (r *SaleRepo) UpdateReturnTotals(ctx context.Context, id string, totalReturned, netTotal decimal.Decimal, hasReturns bool) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE sales SET total_returned = $2, net_total = $3, has_returns = $4 WHERE sale_id = $1`,
		id, totalReturned, netTotal, hasReturns,
	)
	if err != nil {
		return fmt.Errorf("update sale totals: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Create persiste una venta con sus ítems. Debe correr dentro de una tx.
func (r *SaleRepo) Create(ctx context.Context, s *entity.SaleRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (sale_id, sale_date, sale_time, subtotal, discount, tax, grand_total, payment_method,
			sold_by, amount_received, change_due, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.SaleID, s.SaleDate, s.SaleTime, s.Subtotal, s.Discount, s.Tax, s.GrandTotal, s.PaymentMethod,
		s.SoldBy, s.AmountReceived, s.ChangeDue, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert sale: %w", err)
	}
	batch := &pgx.Batch{}
	for i, it := range s.Items {
		batch.Queue(`
			INSERT INTO sale_items (sale_id, position, product_id, product_name, quantity, unit, unit_price, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			s.SaleID, i, it.ProductID, it.ProductName, it.Quantity, it.Unit, it.UnitPrice, it.LineTotal)
	}
	results := r.q.SendBatch(ctx, batch)
	defer results.Close()
	for range s.Items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	return results.Close()
}

func (r *SaleRepo) loadItems(ctx context.Context, saleIDs []string) (map[string][]entity.SaleItem, error) {
	out := make(map[string][]entity.SaleItem, len(saleIDs))
	if len(saleIDs) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT sale_id, product_id, product_name, quantity, unit, unit_price, line_total
		FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, position`, saleIDs)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var it entity.SaleItem
		if err := rows.Scan(&id, &it.ProductID, &it.ProductName, &it.Quantity, &it.Unit, &it.UnitPrice, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out[id] = append(out[id], it)
	}
	return out, rows.Err()
}
