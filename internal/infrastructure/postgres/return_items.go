package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/domain/repository"
)

// insertReturnItems inserta los ítems en orden con un batch (una ida y vuelta).
func insertReturnItems(ctx context.Context, q Querier, table, returnID string, items []entity.ReturnItem) error {
	if len(items) == 0 {
		return nil
	}
	query := `INSERT INTO ` + table + ` (return_id, position, product_id, product_name, quantity, unit, rate_per_unit, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	batch := &pgx.Batch{}
	for i, it := range items {
		batch.Queue(query, returnID, i, it.ProductID, it.ProductName, it.Quantity, it.Unit, it.RatePerUnit, it.LineTotal)
	}
	results := q.SendBatch(ctx, batch)
	defer results.Close()
	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return results.Close()
}

// loadReturnItems carga los ítems de varias devoluciones indexados por return_id.
func loadReturnItems(ctx context.Context, q Querier, table string, returnIDs []string) (map[string][]entity.ReturnItem, error) {
	out := make(map[string][]entity.ReturnItem, len(returnIDs))
	if len(returnIDs) == 0 {
		return out, nil
	}
	query := `SELECT return_id, product_id, product_name, quantity, unit, rate_per_unit, line_total
		FROM ` + table + ` WHERE return_id = ANY($1) ORDER BY return_id, position`
	rows, err := q.Query(ctx, query, returnIDs)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var it entity.ReturnItem
		if err := rows.Scan(&id, &it.ProductID, &it.ProductName, &it.Quantity, &it.Unit, &it.RatePerUnit, &it.LineTotal); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out[id] = append(out[id], it)
	}
	return out, rows.Err()
}

// returnWhere arma el WHERE de un listado de devoluciones. parentColumn es la columna de la transacción original.
func returnWhere(filter repository.ReturnFilter, parentColumn string, withSupplier bool) (string, []any) {
	var conds []string
	var args []any
	pos := 1
	if filter.ParentID != "" {
		conds = append(conds, fmt.Sprintf("%s = $%d", parentColumn, pos))
		args = append(args, filter.ParentID)
		pos++
	}
	if withSupplier && filter.SupplierID != "" {
		conds = append(conds, fmt.Sprintf("supplier_id = $%d", pos))
		args = append(args, filter.SupplierID)
		pos++
	}
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
	query := ""
	if len(conds) > 0 {
		query = " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, return_id"
	return query + pageClause(filter.Limit, filter.Offset, pos, &args), args
}

// pageClause LIMIT/OFFSET parametrizados; limit <= 0 no limita.
func pageClause(limit, offset, pos int, args *[]any) string {
	clause := ""
	if limit > 0 {
		clause += fmt.Sprintf(" LIMIT $%d", pos)
		*args = append(*args, limit)
		pos++
	}
	if offset > 0 {
		clause += fmt.Sprintf(" OFFSET $%d", pos)
		*args = append(*args, offset)
	}
	return clause
}

func collectIDs[T any](list []T, id func(T) string) []string {
	ids := make([]string, 0, len(list))
	for _, v := range list {
		ids = append(ids, id(v))
	}
	return ids
}
