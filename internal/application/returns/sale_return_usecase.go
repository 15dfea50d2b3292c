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

// SaleReturnUseCase procesa devoluciones de clientes contra ventas y expone la venta
// con su modelo de lectura (total devuelto, neto, bandera de devoluciones).
type SaleReturnUseCase struct {
	txRunner   TxRunner
	saleRepo   repository.SaleRepository
	returnRepo repository.SaleReturnRepository
	log        *logger.Logger
	now        func() time.Time
	newID      func() string
}

// NewSaleReturnUseCase construye el caso de uso.
func NewSaleReturnUseCase(
	txRunner TxRunner,
	saleRepo repository.SaleRepository,
	returnRepo repository.SaleReturnRepository,
	log *logger.Logger,
) *SaleReturnUseCase {
	return &SaleReturnUseCase{
		txRunner:   txRunner,
		saleRepo:   saleRepo,
		returnRepo: returnRepo,
		log:        log,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

// SetClock reemplaza el reloj usado para estampar fecha y hora.
func (uc *SaleReturnUseCase) SetClock(now func() time.Time) { uc.now = now }

// SetIDGenerator reemplaza el generador de return_id.
func (uc *SaleReturnUseCase) SetIDGenerator(newID func() string) { uc.newID = newID }

// Validate evalúa la solicitud contra el estado actual sin escribir nada.
func (uc *SaleReturnUseCase) Validate(ctx context.Context, in dto.ValidateSaleReturnRequest) (*dto.ValidationResult, error) {
	id := strings.TrimSpace(in.SaleID)
	lines := toSaleLines(in.Items)
	if id == "" || len(lines) == 0 {
		_, err := domreturns.ValidateSaleReturn(nil, nil, nil)
		return validationResult(err)
	}
	sale, existing, err := uc.load(ctx, uc.saleRepo, uc.returnRepo, id, false)
	if err != nil {
		return nil, err
	}
	_, err = domreturns.ValidateSaleReturn(sale, lines, existing)
	return validationResult(err)
}

// Process registra la devolución de venta con la misma semántica que PurchaseReturnUseCase.Process.
// El tope de crédito (total cobrado menos lo ya acreditado) lo rechaza el validador.
func (uc *SaleReturnUseCase) Process(ctx context.Context, session Session, in dto.ProcessSaleReturnRequest) *dto.ProcessSaleReturnResult {
	id := strings.TrimSpace(in.SaleID)
	lines := toSaleLines(in.Items)
	if id == "" || len(lines) == 0 {
		_, err := domreturns.ValidateSaleReturn(nil, nil, nil)
		return &dto.ProcessSaleReturnResult{ReturnFailure: failure(err)}
	}

	var created *entity.SaleReturn
	err := uc.txRunner.RunSaleReturn(ctx, func(
		saleRepo repository.SaleRepository,
		returnRepo repository.SaleReturnRepository,
		productRepo repository.ProductRepository,
	) error {
		sale, existing, err := uc.load(ctx, saleRepo, returnRepo, id, true)
		if err != nil {
			return err
		}
		validated, err := domreturns.ValidateSaleReturn(sale, lines, existing)
		if err != nil {
			return err
		}

		items := make([]entity.ReturnItem, 0, len(validated))
		for _, v := range validated {
			name := v.Item.ProductName
			if name == "" {
				if name, err = snapshotName(ctx, productRepo, v.Item.ProductID, ""); err != nil {
					return err
				}
			}
			items = append(items, domreturns.NewReturnItem(v.Item.ProductID, name, v.Item.Unit, v.Quantity, v.Item.UnitPrice))
		}
		now := uc.now()
		rec := &entity.SaleReturn{
			ReturnID:          uc.newID(),
			OriginalSaleID:    sale.SaleID,
			ReturnDate:        now.Format(dateLayout),
			ReturnTime:        now.Format(timeLayout),
			ReturnedBy:        session.CurrentUserLabel(),
			Reason:            strings.TrimSpace(in.Reason),
			Notes:             strings.TrimSpace(in.Notes),
			Items:             items,
			TotalCreditAmount: domreturns.TotalCredit(items),
			CreatedAt:         now,
		}

		// El modelo de lectura se calcula antes de insertar; un error aquí solo puede venir
		// de datos almacenados inconsistentes y aborta la transacción sin escribir.
		model, err := domreturns.SaleTotals(sale, append(existing, rec))
		if err != nil {
			return err
		}
		assigned, err := returnRepo.Create(ctx, rec)
		if err != nil {
			return persistence("insert_sale_return", err)
		}
		rec.ReturnID = assigned
		if err := saleRepo.UpdateReturnTotals(ctx, sale.SaleID, model.TotalReturned, model.NetTotal, model.HasReturns); err != nil {
			return persistence("update_sale_totals", err)
		}
		created = rec
		return nil
	})
	if err != nil {
		err = persistence("sale_return_tx", err)
		uc.logFailure(err, id)
		return &dto.ProcessSaleReturnResult{ReturnFailure: failure(err)}
	}

	uc.log.Info().
		Str("return_id", created.ReturnID).
		Str("sale_id", created.OriginalSaleID).
		Str("credit", created.TotalCreditAmount.StringFixed(domreturns.MoneyPlaces)).
		Str("returned_by", created.ReturnedBy).
		Msg("devolución de venta registrada")
	return &dto.ProcessSaleReturnResult{OK: true, Record: toSaleReturnDTO(created)}
}

// GetSale devuelve la venta con su modelo de lectura recalculado desde las devoluciones vigentes.
func (uc *SaleReturnUseCase) GetSale(ctx context.Context, saleID string) (*dto.SaleRecordDTO, error) {
	id := strings.TrimSpace(saleID)
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	sale, existing, err := uc.load(ctx, uc.saleRepo, uc.returnRepo, id, false)
	if err != nil {
		return nil, err
	}
	model, err := domreturns.SaleTotals(sale, existing)
	if err != nil {
		return nil, err
	}
	model.Apply(sale)
	return toSaleRecordDTO(sale), nil
}

// ListSales lista ventas con el modelo de lectura cacheado.
func (uc *SaleReturnUseCase) ListSales(ctx context.Context, in dto.SaleListRequest) ([]dto.SaleRecordDTO, error) {
	filter, err := saleFilter(in)
	if err != nil {
		return nil, err
	}
	list, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, persistence("list_sales", err)
	}
	out := make([]dto.SaleRecordDTO, 0, len(list))
	for _, s := range list {
		out = append(out, *toSaleRecordDTO(s))
	}
	return out, nil
}

// SalesSummary totales de ventas (bruto, devuelto, neto, promedio neto, con devoluciones).
func (uc *SaleReturnUseCase) SalesSummary(ctx context.Context, in dto.SaleListRequest) (*dto.SalesSummaryDTO, error) {
	filter, err := saleFilter(in)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = 0, 0
	list, err := uc.saleRepo.List(ctx, filter)
	if err != nil {
		return nil, persistence("list_sales", err)
	}
	s := domreturns.AggregateSales(list)
	return &dto.SalesSummaryDTO{
		Count:            s.Count,
		TotalGross:       s.TotalGross,
		TotalReturned:    s.TotalReturned,
		TotalNet:         s.TotalNet,
		AverageNet:       s.AverageNet,
		CountWithReturns: s.CountWithReturns,
	}, nil
}

// List lista devoluciones de venta con filtros opcionales.
func (uc *SaleReturnUseCase) List(ctx context.Context, in dto.ReturnListRequest) ([]dto.SaleReturnDTO, error) {
	filter, err := returnFilter(in)
	if err != nil {
		return nil, err
	}
	list, err := uc.returnRepo.List(ctx, filter)
	if err != nil {
		return nil, persistence("list_sale_returns", err)
	}
	out := make([]dto.SaleReturnDTO, 0, len(list))
	for _, r := range list {
		out = append(out, *toSaleReturnDTO(r))
	}
	return out, nil
}

// Summary totales de las devoluciones de venta filtradas.
func (uc *SaleReturnUseCase) Summary(ctx context.Context, in dto.ReturnListRequest) (*dto.SaleReturnSummaryDTO, error) {
	filter, err := returnFilter(in)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = 0, 0
	list, err := uc.returnRepo.List(ctx, filter)
	if err != nil {
		return nil, persistence("list_sale_returns", err)
	}
	s := domreturns.AggregateSaleReturns(list)
	return &dto.SaleReturnSummaryDTO{
		Count:             s.Count,
		TotalCreditAmount: s.TotalCreditAmount,
		AverageCredit:     s.AverageCredit,
		UniqueSales:       s.UniqueSales,
	}, nil
}

func (uc *SaleReturnUseCase) load(
	ctx context.Context,
	saleRepo repository.SaleRepository,
	returnRepo repository.SaleReturnRepository,
	id string,
	forUpdate bool,
) (*entity.SaleRecord, []*entity.SaleReturn, error) {
	get := saleRepo.GetByID
	if forUpdate {
		get = saleRepo.GetByIDForUpdate
	}
	sale, err := get(ctx, id)
	if err != nil {
		return nil, nil, persistence("get_sale", err)
	}
	if sale == nil {
		return nil, nil, domain.NewIntegrityError("get_sale", "la venta %s no existe", id)
	}
	existing, err := returnRepo.ListBySale(ctx, sale.SaleID)
	if err != nil {
		return nil, nil, persistence("list_sale_returns", err)
	}
	return sale, existing, nil
}

func (uc *SaleReturnUseCase) logFailure(err error, saleID string) {
	if _, ok := domain.AsValidation(err); ok {
		return
	}
	if _, ok := domain.AsIntegrity(err); ok {
		uc.log.Warn().Err(err).Str("sale_id", saleID).Msg("devolución de venta inconsistente")
		return
	}
	uc.log.Error().Err(err).Str("sale_id", saleID).Msg("devolución de venta no persistida")
}

func toSaleLines(items []dto.SaleReturnLineRequest) []domreturns.SaleReturnLine {
	lines := make([]domreturns.SaleReturnLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, domreturns.SaleReturnLine{ProductID: it.ProductID, Quantity: string(it.Quantity)})
	}
	return lines
}

func saleFilter(in dto.SaleListRequest) (repository.SaleFilter, error) {
	from, to, err := parsePeriod(in.From, in.To)
	if err != nil {
		return repository.SaleFilter{}, err
	}
	page := in.PageRequest
	page.DefaultPage()
	return repository.SaleFilter{From: from, To: to, Limit: page.Limit, Offset: page.Offset}, nil
}
