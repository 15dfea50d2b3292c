package memory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/returns-api/internal/domain"
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var (
	_ repository.PurchaseRepository       = (*PurchaseRepo)(nil)
	_ repository.PurchaseReturnRepository = (*PurchaseReturnRepo)(nil)
	_ repository.SaleRepository           = (*SaleRepo)(nil)
	_ repository.SaleReturnRepository     = (*SaleReturnRepo)(nil)
	_ repository.ProductRepository        = (*ProductRepo)(nil)
	_ repository.UserRepository           = (*UserRepo)(nil)
)

func inPeriod(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// ---------------------------------------------------------------------------
// Compras
// ---------------------------------------------------------------------------

// PurchaseRepo implementa repository.PurchaseRepository.
type PurchaseRepo struct {
	store *Store
	tx    *state
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseLine, error) {
	var out *entity.PurchaseLine
	err := r.store.view(r.tx, func(st *state) error {
		if p, ok := st.purchases[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate dentro de RunPurchaseReturn el lock del almacén ya está tomado.
func (r *PurchaseRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.PurchaseLine, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseRepo) UpdateReturnTotals(ctx context.Context, id string, totalReturned, remaining decimal.Decimal) error {
	return r.store.view(r.tx, func(st *state) error {
		p, ok := st.purchases[id]
		if !ok {
			return domain.ErrNotFound
		}
		p.TotalReturned = totalReturned
		p.RemainingQuantity = remaining
		st.purchases[id] = p
		return nil
	})
}

// PurchaseReturnRepo implementa repository.PurchaseReturnRepository.
type PurchaseReturnRepo struct {
	store *Store
	tx    *state
}

func (r *PurchaseReturnRepo) Create(ctx context.Context, ret *entity.PurchaseReturn) (string, error) {
	if err := r.store.insertAllowed(r.tx); err != nil {
		return "", err
	}
	id := ret.ReturnID
	if id == "" {
		id = uuid.New().String()
	}
	err := r.store.view(r.tx, func(st *state) error {
		c := clonePurchaseReturn(*ret)
		c.ReturnID = id
		st.purchaseReturns = append(st.purchaseReturns, c)
		r.store.stats.PurchaseReturnInserts++
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *PurchaseReturnRepo) List(ctx context.Context, filter repository.ReturnFilter) ([]*entity.PurchaseReturn, error) {
	var out []*entity.PurchaseReturn
	err := r.store.view(r.tx, func(st *state) error {
		for _, ret := range st.purchaseReturns {
			if filter.ParentID != "" && ret.OriginalPurchaseID != filter.ParentID {
				continue
			}
			if filter.SupplierID != "" && ret.SupplierID != filter.SupplierID {
				continue
			}
			if !inPeriod(ret.CreatedAt, filter.From, filter.To) {
				continue
			}
			c := clonePurchaseReturn(ret)
			out = append(out, &c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(out, func(r *entity.PurchaseReturn) int64 { return r.CreatedAt.UnixNano() })
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *PurchaseReturnRepo) ListByPurchase(ctx context.Context, purchaseID string) ([]*entity.PurchaseReturn, error) {
	return r.List(ctx, repository.ReturnFilter{ParentID: purchaseID})
}

// ---------------------------------------------------------------------------
// Ventas
// ---------------------------------------------------------------------------

// SaleRepo implementa repository.SaleRepository.
type SaleRepo struct {
	store *Store
	tx    *state
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.SaleRecord, error) {
	var out *entity.SaleRecord
	err := r.store.view(r.tx, func(st *state) error {
		if s, ok := st.sales[id]; ok {
			c := cloneSale(s)
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.SaleRecord, error) {
	return r.GetByID(ctx, id)
}

func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter) ([]*entity.SaleRecord, error) {
	var out []*entity.SaleRecord
	err := r.store.view(r.tx, func(st *state) error {
		for _, s := range st.sales {
			if !inPeriod(s.CreatedAt, filter.From, filter.To) {
				continue
			}
			c := cloneSale(s)
			out = append(out, &c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(out, func(s *entity.SaleRecord) int64 { return s.CreatedAt.UnixNano() })
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *SaleRepo) UpdateReturnTotals(ctx context.Context, id string, totalReturned, netTotal decimal.Decimal, hasReturns bool) error {
	return r.store.view(r.tx, func(st *state) error {
		s, ok := st.sales[id]
		if !ok {
			return domain.ErrNotFound
		}
		s.TotalReturned = totalReturned
		s.NetTotal = &netTotal
		s.HasReturns = hasReturns
		st.sales[id] = s
		return nil
	})
}

// SaleReturnRepo implementa repository.SaleReturnRepository.
type SaleReturnRepo struct {
	store *Store
	tx    *state
}

func (r *SaleReturnRepo) Create(ctx context.Context, ret *entity.SaleReturn) (string, error) {
	if err := r.store.insertAllowed(r.tx); err != nil {
		return "", err
	}
	id := ret.ReturnID
	if id == "" {
		id = uuid.New().String()
	}
	err := r.store.view(r.tx, func(st *state) error {
		c := cloneSaleReturn(*ret)
		c.ReturnID = id
		st.saleReturns = append(st.saleReturns, c)
		r.store.stats.SaleReturnInserts++
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *SaleReturnRepo) List(ctx context.Context, filter repository.ReturnFilter) ([]*entity.SaleReturn, error) {
	var out []*entity.SaleReturn
	err := r.store.view(r.tx, func(st *state) error {
		for _, ret := range st.saleReturns {
			if filter.ParentID != "" && ret.OriginalSaleID != filter.ParentID {
				continue
			}
			if !inPeriod(ret.CreatedAt, filter.From, filter.To) {
				continue
			}
			c := cloneSaleReturn(ret)
			out = append(out, &c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortNewestFirst(out, func(r *entity.SaleReturn) int64 { return r.CreatedAt.UnixNano() })
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *SaleReturnRepo) ListBySale(ctx context.Context, saleID string) ([]*entity.SaleReturn, error) {
	return r.List(ctx, repository.ReturnFilter{ParentID: saleID})
}

// ---------------------------------------------------------------------------
// Catálogo y usuarios
// ---------------------------------------------------------------------------

// ProductRepo implementa repository.ProductRepository.
type ProductRepo struct {
	store *Store
	tx    *state
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.store.view(r.tx, func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// UserRepo implementa repository.UserRepository.
type UserRepo struct {
	store *Store
}

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.store.view(nil, func(st *state) error {
		email := strings.ToLower(strings.TrimSpace(user.Email))
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		if user.ID == "" {
			user.ID = uuid.New().String()
		}
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.store.view(nil, func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = &u
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.store.view(nil, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, strings.TrimSpace(email)) {
				out = &u
				return nil
			}
		}
		return nil
	})
	return out, err
}

// insertAllowed devuelve el fallo inyectado con FailInserts.
func (s *Store) insertAllowed(tx *state) error {
	if tx != nil {
		return s.failInserts
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failInserts
}
