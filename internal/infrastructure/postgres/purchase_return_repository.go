package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/domain/repository"
)

var _ repository.PurchaseReturnRepository = (*PurchaseReturnRepo)(nil)

// PurchaseReturnRepo devoluciones de compra (cabecera + purchase_return_items). Usable con pool o tx;
// Create debe correr dentro de una tx para que cabecera e ítems queden juntos.
type PurchaseReturnRepo struct {
	q Querier
}

// NewPurchaseReturnRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseReturnRepository(q Querier) *PurchaseReturnRepo {
	return &PurchaseReturnRepo{q: q}
}

// Create inserta la devolución y sus ítems. Si ReturnID viene vacío se genera un UUID.
func (r *PurchaseReturnRepo) Create(ctx context.Context, ret *entity.PurchaseReturn) (string, error) {
	id := ret.ReturnID
	if id == "" {
		id = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_returns (return_id, original_purchase_id, return_date, return_time, returned_by,
			supplier_id, reason, notes, total_credit_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		id, ret.OriginalPurchaseID, ret.ReturnDate, ret.ReturnTime, ret.ReturnedBy,
		ret.SupplierID, ret.Reason, ret.Notes, ret.TotalCreditAmount, ret.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert purchase return: %w", err)
	}
	if err := insertReturnItems(ctx, r.q, "purchase_return_items", id, ret.Items); err != nil {
		return "", err
	}
	return id, nil
}

// List lista devoluciones de compra (más recientes primero) con filtros opcionales.
func (r *PurchaseReturnRepo) List(ctx context.Context, filter repository.ReturnFilter) ([]*entity.PurchaseReturn, error) {
	where, args := returnWhere(filter, "original_purchase_id", true)
	query := `
		SELECT return_id, original_purchase_id, to_char(return_date, 'YYYY-MM-DD'), to_char(return_time, 'HH24:MI:SS'),
			returned_by, supplier_id, reason, notes, total_credit_amount, created_at
		FROM purchase_returns` + where
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase returns: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseReturn
	for rows.Next() {
		var pr entity.PurchaseReturn
		if err := rows.Scan(&pr.ReturnID, &pr.OriginalPurchaseID, &pr.ReturnDate, &pr.ReturnTime,
			&pr.ReturnedBy, &pr.SupplierID, &pr.Reason, &pr.Notes, &pr.TotalCreditAmount, &pr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase return: %w", err)
		}
		list = append(list, &pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchase returns: %w", err)
	}

	items, err := loadReturnItems(ctx, r.q, "purchase_return_items",
		collectIDs(list, func(pr *entity.PurchaseReturn) string { return pr.ReturnID }))
	if err != nil {
		return nil, err
	}
	for _, pr := range list {
		pr.Items = items[pr.ReturnID]
	}
	return list, nil
}

// ListByPurchase todas las devoluciones de una línea de compra.
func (r *PurchaseReturnRepo) ListByPurchase(ctx context.Context, purchaseID string) ([]*entity.PurchaseReturn, error) {
	return r.List(ctx, repository.ReturnFilter{ParentID: purchaseID})
}
