// Package memory almacén en memoria con las mismas garantías transaccionales que el adaptador
// PostgreSQL: RunPurchaseReturn/RunSaleReturn trabajan sobre una copia del estado que solo
// reemplaza al original si fn termina sin error. Usado en tests y con STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/domain/repository"
)

type state struct {
	products        map[string]entity.Product
	purchases       map[string]entity.PurchaseLine
	purchaseReturns []entity.PurchaseReturn
	sales           map[string]entity.SaleRecord
	saleReturns     []entity.SaleReturn
	users           map[string]entity.User
}

func newState() *state {
	return &state{
		products:  make(map[string]entity.Product),
		purchases: make(map[string]entity.PurchaseLine),
		sales:     make(map[string]entity.SaleRecord),
		users:     make(map[string]entity.User),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = cloneSale(v)
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	c.purchaseReturns = make([]entity.PurchaseReturn, 0, len(s.purchaseReturns))
	for _, r := range s.purchaseReturns {
		c.purchaseReturns = append(c.purchaseReturns, clonePurchaseReturn(r))
	}
	c.saleReturns = make([]entity.SaleReturn, 0, len(s.saleReturns))
	for _, r := range s.saleReturns {
		c.saleReturns = append(c.saleReturns, cloneSaleReturn(r))
	}
	return c
}

// Stats contadores de escrituras, para verificar que un rechazo no llega al almacén.
type Stats struct {
	PurchaseReturnInserts int
	SaleReturnInserts     int
	Commits               int
	Rollbacks             int
}

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	mu    sync.Mutex
	st    *state
	stats Stats
	// failInserts, si no es nil, lo devuelven los Create de devoluciones (simula almacén caído).
	failInserts error
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

// FailInserts hace que las siguientes inserciones de devoluciones fallen con err (nil restablece).
func (s *Store) FailInserts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failInserts = err
}

// Stats devuelve una copia de los contadores.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// AddProduct, AddPurchase, AddSale y AddUser cargan datos maestros (seed y tests).
func (s *Store) AddProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.products[p.ID] = p
}

func (s *Store) AddPurchase(p entity.PurchaseLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.RemainingQuantity.IsZero() && p.TotalReturned.IsZero() {
		p.RemainingQuantity = p.Quantity
	}
	s.st.purchases[p.ID] = p
}

func (s *Store) AddSale(sale entity.SaleRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.sales[sale.SaleID] = cloneSale(sale)
}

func (s *Store) AddUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[u.ID] = u
}

// view ejecuta fn sobre el estado de la transacción o, fuera de ella, sobre el estado global con el lock tomado.
func (s *Store) view(tx *state, fn func(st *state) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.st)
}

// run toma el lock durante toda la transacción: dos devoluciones contra el mismo padre no se solapan.
func (s *Store) run(fn func(tx *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(work); err != nil {
		s.stats.Rollbacks++
		return err
	}
	s.st = work
	s.stats.Commits++
	return nil
}

// RunPurchaseReturn implementa returns.TxRunner.
func (s *Store) RunPurchaseReturn(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	returnRepo repository.PurchaseReturnRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.run(func(tx *state) error {
		return fn(&PurchaseRepo{store: s, tx: tx}, &PurchaseReturnRepo{store: s, tx: tx}, &ProductRepo{store: s, tx: tx})
	})
}

// RunSaleReturn implementa returns.TxRunner.
func (s *Store) RunSaleReturn(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	returnRepo repository.SaleReturnRepository,
	productRepo repository.ProductRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.run(func(tx *state) error {
		return fn(&SaleRepo{store: s, tx: tx}, &SaleReturnRepo{store: s, tx: tx}, &ProductRepo{store: s, tx: tx})
	})
}

// Repositorios fuera de transacción.
func (s *Store) Purchases() *PurchaseRepo             { return &PurchaseRepo{store: s} }
func (s *Store) PurchaseReturns() *PurchaseReturnRepo { return &PurchaseReturnRepo{store: s} }
func (s *Store) Sales() *SaleRepo                     { return &SaleRepo{store: s} }
func (s *Store) SaleReturns() *SaleReturnRepo         { return &SaleReturnRepo{store: s} }
func (s *Store) Products() *ProductRepo               { return &ProductRepo{store: s} }
func (s *Store) Users() *UserRepo                     { return &UserRepo{store: s} }

func clonePurchaseReturn(r entity.PurchaseReturn) entity.PurchaseReturn {
	r.Items = append([]entity.ReturnItem(nil), r.Items...)
	return r
}

func cloneSaleReturn(r entity.SaleReturn) entity.SaleReturn {
	r.Items = append([]entity.ReturnItem(nil), r.Items...)
	return r
}

func cloneSale(s entity.SaleRecord) entity.SaleRecord {
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	if s.NetTotal != nil {
		n := *s.NetTotal
		s.NetTotal = &n
	}
	return s
}

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return list[:0]
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// sortNewestFirst ordena por CreatedAt descendente (igual que ORDER BY created_at DESC).
func sortNewestFirst[T any](list []T, createdAt func(T) int64) {
	sort.SliceStable(list, func(i, j int) bool { return createdAt(list[i]) > createdAt(list[j]) })
}
