package returns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/returns-api/internal/application/dto"
	"github.com/jhoicas/returns-api/internal/domain"
	"github.com/jhoicas/returns-api/internal/domain/entity"
	"github.com/jhoicas/returns-api/internal/domain/repository"
	domreturns "github.com/jhoicas/returns-api/internal/domain/returns"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// persistence envuelve un error del almacén; validación e integridad pasan sin cambios.
func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := domain.AsValidation(err); ok {
		return err
	}
	if _, ok := domain.AsIntegrity(err); ok {
		return err
	}
	if _, ok := domain.AsPersistence(err); ok {
		return err
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

// failure traduce un error del procesador al resultado tipado.
func failure(err error) dto.ReturnFailure {
	if v, ok := domain.AsValidation(err); ok {
		return dto.ReturnFailure{Error: dto.ErrorValidationFailed, Reason: v.Reason, Max: v.Max, Message: v.Message}
	}
	if v, ok := domain.AsIntegrity(err); ok {
		return dto.ReturnFailure{Error: dto.ErrorIntegrity, Message: v.Error()}
	}
	return dto.ReturnFailure{Error: dto.ErrorPersistence, Message: err.Error()}
}

func validationResult(err error) (*dto.ValidationResult, error) {
	if err == nil {
		return &dto.ValidationResult{OK: true}, nil
	}
	if v, ok := domain.AsValidation(err); ok {
		return &dto.ValidationResult{OK: false, Reason: v.Reason, Max: v.Max, Message: v.Message}, nil
	}
	return nil, err
}

// snapshotName nombre vigente del producto en el catálogo; fallback si no existe o no tiene nombre.
func snapshotName(ctx context.Context, products repository.ProductRepository, productID, fallback string) (string, error) {
	p, err := products.GetByID(ctx, productID)
	if err != nil {
		return "", persistence("get_product", err)
	}
	if p == nil || p.Name == "" {
		return fallback, nil
	}
	return p.Name, nil
}

func toReturnItemDTOs(items []entity.ReturnItem) []dto.ReturnItemDTO {
	out := make([]dto.ReturnItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, dto.ReturnItemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			RatePerUnit: it.RatePerUnit,
			LineTotal:   domreturns.Display(it.LineTotal),
		})
	}
	return out
}

func toPurchaseReturnDTO(r *entity.PurchaseReturn) *dto.PurchaseReturnDTO {
	if r == nil {
		return nil
	}
	return &dto.PurchaseReturnDTO{
		ReturnID:           r.ReturnID,
		OriginalPurchaseID: r.OriginalPurchaseID,
		ReturnDate:         r.ReturnDate,
		ReturnTime:         r.ReturnTime,
		ReturnedBy:         r.ReturnedBy,
		SupplierID:         r.SupplierID,
		Reason:             r.Reason,
		Notes:              r.Notes,
		Items:              toReturnItemDTOs(r.Items),
		TotalCreditAmount:  domreturns.Display(r.TotalCreditAmount),
	}
}

func toSaleReturnDTO(r *entity.SaleReturn) *dto.SaleReturnDTO {
	if r == nil {
		return nil
	}
	return &dto.SaleReturnDTO{
		ReturnID:          r.ReturnID,
		OriginalSaleID:    r.OriginalSaleID,
		ReturnDate:        r.ReturnDate,
		ReturnTime:        r.ReturnTime,
		ReturnedBy:        r.ReturnedBy,
		Reason:            r.Reason,
		Notes:             r.Notes,
		Items:             toReturnItemDTOs(r.Items),
		TotalCreditAmount: domreturns.Display(r.TotalCreditAmount),
	}
}

func toSaleRecordDTO(s *entity.SaleRecord) *dto.SaleRecordDTO {
	items := make([]dto.SaleItemDTO, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			LineTotal:   domreturns.Display(it.LineTotal),
		})
	}
	return &dto.SaleRecordDTO{
		SaleID:         s.SaleID,
		SaleDate:       s.SaleDate,
		SaleTime:       s.SaleTime,
		Subtotal:       s.Subtotal,
		Discount:       s.Discount,
		Tax:            s.Tax,
		GrandTotal:     s.GrandTotal,
		PaymentMethod:  s.PaymentMethod,
		SoldBy:         s.SoldBy,
		AmountReceived: s.AmountReceived,
		ChangeDue:      s.ChangeDue,
		Items:          items,
		TotalReturned:  domreturns.Display(s.TotalReturned),
		NetTotal:       domreturns.Display(s.EffectiveNetTotal()),
		HasReturns:     s.HasReturns,
	}
}

// parsePeriod interpreta from/to (YYYY-MM-DD); to incluye el día completo.
func parsePeriod(from, to string) (*time.Time, *time.Time, error) {
	var f, t *time.Time
	if s := strings.TrimSpace(from); s != "" {
		v, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: from debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		f = &v
	}
	if s := strings.TrimSpace(to); s != "" {
		v, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: to debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		end := v.Add(24*time.Hour - time.Nanosecond)
		t = &end
	}
	if f != nil && t != nil && f.After(*t) {
		return nil, nil, fmt.Errorf("%w: from es posterior a to", domain.ErrInvalidInput)
	}
	return f, t, nil
}

func returnFilter(in dto.ReturnListRequest) (repository.ReturnFilter, error) {
	from, to, err := parsePeriod(in.From, in.To)
	if err != nil {
		return repository.ReturnFilter{}, err
	}
	page := in.PageRequest
	page.DefaultPage()
	return repository.ReturnFilter{
		ParentID:   strings.TrimSpace(in.ParentID),
		SupplierID: strings.TrimSpace(in.SupplierID),
		From:       from,
		To:         to,
		Limit:      page.Limit,
		Offset:     page.Offset,
	}, nil
}
