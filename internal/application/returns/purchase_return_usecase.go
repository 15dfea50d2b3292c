package returns

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/returns-api/internal/application/dto"
	"github.com/jhoicas/returns-api/internal/domain"
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/domain/repository"
	domreturns "github.com/jhoicas/returns-api/internal/domain/returns"
	"github.com/jhoicas/returns-api/pkg/logger"
)

// PurchaseReturnUseCase procesa devoluciones a proveedor contra líneas de compra.
// Process es la única vía de escritura: revalida contra el estado vigente dentro de la
// transacción, calcula el crédito, persiste la devolución y refresca el modelo de lectura de la compra.
type PurchaseReturnUseCase struct {
	txRunner     TxRunner
	purchaseRepo repository.PurchaseRepository
	returnRepo   repository.PurchaseReturnRepository
	log          *logger.Logger
	now          func() time.Time
	newID        func() string
}

// NewPurchaseReturnUseCase construye el caso de uso.
func NewPurchaseReturnUseCase(
	txRunner TxRunner,
	purchaseRepo repository.PurchaseRepository,
	returnRepo repository.PurchaseReturnRepository,
	log *logger.Logger,
) *PurchaseReturnUseCase {
	return &PurchaseReturnUseCase{
		txRunner:     txRunner,
		purchaseRepo: purchaseRepo,
		returnRepo:   returnRepo,
		log:          log,
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
	}
}

// SetClock reemplaza el reloj usado para estampar fecha y hora.
func (uc *PurchaseReturnUseCase) SetClock(now func() time.Time) { uc.now = now }

// SetIDGenerator reemplaza el generador de return_id.
func (uc *PurchaseReturnUseCase) SetIDGenerator(newID func() string) { uc.newID = newID }

// Validate evalúa la solicitud contra el estado actual sin escribir nada.
// Solo devuelve error para fallos de almacén o de integridad; los rechazos van en el resultado.
func (uc *PurchaseReturnUseCase) Validate(ctx context.Context, in dto.ValidatePurchaseReturnRequest) (*dto.ValidationResult, error) {
	id := strings.TrimSpace(in.PurchaseID)
	if id == "" {
		return validationResult(noPurchaseSelected())
	}
	line, existing, err := uc.load(ctx, uc.purchaseRepo, uc.returnRepo, id, false)
	if err != nil {
		return nil, err
	}
	_, err = domreturns.ValidatePurchaseReturn(line, string(in.Quantity), existing)
	return validationResult(err)
}

// Process registra la devolución. Un solo intento, sin reintentos: el resultado indica
// ValidationFailed (nada se escribió), IntegrityError o PersistenceError (reintentable por el caller).
func (uc *PurchaseReturnUseCase) Process(ctx context.Context, session Session, in dto.ProcessPurchaseReturnRequest) *dto.ProcessPurchaseReturnResult {
	id := strings.TrimSpace(in.PurchaseID)
	// Rechazos estructurales sin abrir transacción.
	if id == "" {
		return &dto.ProcessPurchaseReturnResult{ReturnFailure: failure(noPurchaseSelected())}
	}
	if _, err := domreturns.ParseQuantity(string(in.Quantity)); err != nil {
		return &dto.ProcessPurchaseReturnResult{ReturnFailure: failure(err)}
	}

	var created *entity.PurchaseReturn
	err := uc.txRunner.RunPurchaseReturn(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		returnRepo repository.PurchaseReturnRepository,
		productRepo repository.ProductRepository,
	) error {
		// 1. Revalidar contra el estado vigente (fila bloqueada).
		line, existing, err := uc.load(ctx, purchaseRepo, returnRepo, id, true)
		if err != nil {
			return err
		}
		qty, err := domreturns.ValidatePurchaseReturn(line, string(in.Quantity), existing)
		if err != nil {
			return err
		}

		// 2. Crédito y copia puntual del ítem.
		name, err := snapshotName(ctx, productRepo, line.ProductID, line.ProductName)
		if err != nil {
			return err
		}
		items := []entity.ReturnItem{domreturns.NewReturnItem(line.ProductID, name, line.Unit, qty, line.RatePerUnit)}
		now := uc.now()
		rec := &entity.PurchaseReturn{
			ReturnID:           uc.newID(),
			OriginalPurchaseID: line.ID,
			ReturnDate:         now.Format(dateLayout),
			ReturnTime:         now.Format(timeLayout),
			ReturnedBy:         session.CurrentUserLabel(),
			SupplierID:         line.SupplierID,
			Reason:             strings.TrimSpace(in.Reason),
			Notes:              strings.TrimSpace(in.Notes),
			Items:              items,
			TotalCreditAmount:  domreturns.TotalCredit(items),
			CreatedAt:          now,
		}

		// 3. Persistir y recalcular el modelo de lectura de la compra.
		assigned, err := returnRepo.Create(ctx, rec)
		if err != nil {
			return persistence("insert_purchase_return", err)
		}
		rec.ReturnID = assigned

		after := append(existing, rec)
		remaining, err := domreturns.RemainingQuantity(line, after)
		if err != nil {
			return err
		}
		returned := domreturns.ReturnedQuantity(line.ID, after)
		if err := purchaseRepo.UpdateReturnTotals(ctx, line.ID, returned, remaining); err != nil {
			return persistence("update_purchase_totals", err)
		}
		created = rec
		return nil
	})
	if err != nil {
		err = persistence("purchase_return_tx", err)
		uc.logFailure(err, id)
		return &dto.ProcessPurchaseReturnResult{ReturnFailure: failure(err)}
	}

	uc.log.Info().
		Str("return_id", created.ReturnID).
		Str("purchase_id", created.OriginalPurchaseID).
		Str("credit", created.TotalCreditAmount.StringFixed(domreturns.MoneyPlaces)).
		Str("returned_by", created.ReturnedBy).
		Msg("devolución de compra registrada")
	// 4. El registro completo viaja en la respuesta.
	return &dto.ProcessPurchaseReturnResult{OK: true, Record: toPurchaseReturnDTO(created)}
}

// Remaining devuelve el remanente devolvible de una compra calculado desde sus devoluciones.
func (uc *PurchaseReturnUseCase) Remaining(ctx context.Context, purchaseID string) (*dto.RemainingQuantityDTO, error) {
	line, existing, err := uc.load(ctx, uc.purchaseRepo, uc.returnRepo, strings.TrimSpace(purchaseID), false)
	if err != nil {
		return nil, err
	}
	remaining, err := domreturns.RemainingQuantity(line, existing)
	if err != nil {
		return nil, err
	}
	return &dto.RemainingQuantityDTO{
		PurchaseID:        line.ID,
		Quantity:          line.Quantity,
		TotalReturned:     domreturns.ReturnedQuantity(line.ID, existing),
		RemainingQuantity: remaining,
		Unit:              line.Unit,
	}, nil
}

// List lista devoluciones de compra con filtros opcionales.
func (uc *PurchaseReturnUseCase) List(ctx context.Context, in dto.ReturnListRequest) ([]dto.PurchaseReturnDTO, error) {
	filter, err := returnFilter(in)
	if err != nil {
		return nil, err
	}
	list, err := uc.returnRepo.List(ctx, filter)
	if err != nil {
		return nil, persistence("list_purchase_returns", err)
	}
	out := make([]dto.PurchaseReturnDTO, 0, len(list))
	for _, r := range list {
		out = append(out, *toPurchaseReturnDTO(r))
	}
	return out, nil
}

// Summary totales (conteo, crédito total y promedio, proveedores distintos) de las devoluciones filtradas.
func (uc *PurchaseReturnUseCase) Summary(ctx context.Context, in dto.ReturnListRequest) (*dto.PurchaseReturnSummaryDTO, error) {
	filter, err := returnFilter(in)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = 0, 0
	list, err := uc.returnRepo.List(ctx, filter)
	if err != nil {
		return nil, persistence("list_purchase_returns", err)
	}
	s := domreturns.AggregatePurchaseReturns(list)
	return &dto.PurchaseReturnSummaryDTO{
		Count:             s.Count,
		TotalCreditAmount: s.TotalCreditAmount,
		AverageCredit:     s.AverageCredit,
		UniqueSuppliers:   s.UniqueSuppliers,
	}, nil
}

// load lee la compra (con bloqueo si forUpdate) y sus devoluciones. Compra inexistente es IntegrityError.
func (uc *PurchaseReturnUseCase) load(
	ctx context.Context,
	purchaseRepo repository.PurchaseRepository,
	returnRepo repository.PurchaseReturnRepository,
	id string,
	forUpdate bool,
) (*entity.PurchaseLine, []*entity.PurchaseReturn, error) {
	get := purchaseRepo.GetByID
	if forUpdate {
		get = purchaseRepo.GetByIDForUpdate
	}
	line, err := get(ctx, id)
	if err != nil {
		return nil, nil, persistence("get_purchase", err)
	}
	if line == nil {
		return nil, nil, domain.NewIntegrityError("get_purchase", "la compra %s no existe", id)
	}
	existing, err := returnRepo.ListByPurchase(ctx, line.ID)
	if err != nil {
		return nil, nil, persistence("list_purchase_returns", err)
	}
	return line, existing, nil
}

func (uc *PurchaseReturnUseCase) logFailure(err error, purchaseID string) {
	if _, ok := domain.AsValidation(err); ok {
		return
	}
	if _, ok := domain.AsIntegrity(err); ok {
		uc.log.Warn().Err(err).Str("purchase_id", purchaseID).Msg("devolución de compra inconsistente")
		return
	}
	uc.log.Error().Err(err).Str("purchase_id", purchaseID).Msg("devolución de compra no persistida")
}

func noPurchaseSelected() error {
	_, err := domreturns.ValidatePurchaseReturn(nil, "", nil)
	return err
}
