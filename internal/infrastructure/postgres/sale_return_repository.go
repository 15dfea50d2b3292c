package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/domain/repository"
)

var _ repository.SaleReturnRepository = (*SaleReturnRepo)(nil)

// SaleReturnRepo devoluciones de venta (cabecera + sale_return_items).
type SaleReturnRepo struct {
	q Querier
}

// NewSaleReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleReturnRepository(q Querier) *SaleReturnRepo {
	return &SaleReturnRepo{q: q}
}

// Create inserta la devolución y sus ítems.
func (r *SaleReturnRepo) Create(ctx context.Context, ret *entity.SaleReturn) (string, error) {
	id := ret.ReturnID
	if id == "" {
		id = uuid.New().String()
	}
	query := `
		INSERT INTO sale_returns (return_id, original_sale_id, return_date, return_time, returned_by,
			reason, notes, total_credit_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		id, ret.OriginalSaleID, ret.ReturnDate, ret.ReturnTime, ret.ReturnedBy,
		ret.Reason, ret.Notes, ret.TotalCreditAmount, ret.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert sale return: %w", err)
	}
	if err := insertReturnItems(ctx, r.q, "sale_return_items", id, ret.Items); err != nil {
		return "", err
	}
	return id, nil
}

// List lista devoluciones de venta con filtros opcionales (SupplierID no aplica).
func (r *SaleReturnRepo) List(ctx context.Context, filter repository.ReturnFilter) ([]*entity.SaleReturn, error) {
	where, args := returnWhere(filter, "original_sale_id", false)
	query := `
		SELECT return_id, original_sale_id, to_char(return_date, 'YYYY-MM-DD'), to_char(return_time, 'HH24:MI:SS'),
			returned_by, reason, notes, total_credit_amount, created_at
		FROM sale_returns` + where
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sale returns: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleReturn
	for rows.Next() {
		var sr entity.SaleReturn
		if err := rows.Scan(&sr.ReturnID, &sr.OriginalSaleID, &sr.ReturnDate, &sr.ReturnTime,
			&sr.ReturnedBy, &sr.Reason, &sr.Notes, &sr.TotalCreditAmount, &sr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale return: %w", err)
		}
		list = append(list, &sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sale returns: %w", err)
	}

	items, err := loadReturnItems(ctx, r.q, "sale_return_items",
		collectIDs(list, func(sr *entity.SaleReturn) string { return sr.ReturnID }))
	if err != nil {
		return nil, err
	}
	for _, sr := range list {
		sr.Items = items[sr.ReturnID]
	}
	return list, nil
}

// ListBySale todas las devoluciones de una venta.
func (r *SaleReturnRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.SaleReturn, error) {
	return r.List(ctx, repository.ReturnFilter{ParentID: saleID})
}
