package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/returns-api/internal/application/dto"
	"github.com/jhoicas/returns-api/internal/application/returns"
	"github.com/jhoicas/returns-api/pkg/logger"
)

// PurchaseReturnHandler devoluciones a proveedor (protegido, admin o bodeguero).
type PurchaseReturnHandler struct {
	uc  *returns.PurchaseReturnUseCase
	log *logger.Logger
}

// NewPurchaseReturnHandler construye el handler.
func NewPurchaseReturnHandler(uc *returns.PurchaseReturnUseCase, log *logger.Logger) *PurchaseReturnHandler {
	return &PurchaseReturnHandler{uc: uc, log: log}
}

// Validate godoc
// @Summary      Validar devolución de compra (sin registrar)
// @Tags         purchase-returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidatePurchaseReturnRequest  true  "purchase_id, quantity"
// @Success      200   {object}  dto.ValidationResult
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/purchase-returns/validate [post]
func (h *PurchaseReturnHandler) Validate(c *fiber.Ctx) error {
	var in dto.ValidatePurchaseReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Validate(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Process godoc
// @Summary      Registrar devolución de compra
// @Description  Revalida contra el estado vigente de la compra y registra la devolución. Acepta Idempotency-Key.
// @Tags         purchase-returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "clave para repetir el envío sin duplicar"
// @Param        body  body  dto.ProcessPurchaseReturnRequest  true  "purchase_id, quantity, reason, notes"
// @Success      201   {object}  dto.ProcessPurchaseReturnResult
// @Failure      409   {object}  dto.ProcessPurchaseReturnResult
// @Failure      422   {object}  dto.ProcessPurchaseReturnResult
// @Failure      503   {object}  dto.ProcessPurchaseReturnResult
// @Router       /api/purchase-returns [post]
func (h *PurchaseReturnHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessPurchaseReturnRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validateStruct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out := h.uc.Process(c.UserContext(), SessionFrom(c), in)
	if !out.OK {
		return c.Status(failureStatus(out.Error)).JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar devoluciones de compra
// @Tags         purchase-returns
// @Security     Bearer
// @Produce      json
// @Param        purchase_id  query  string  false  "compra original"
// @Param        supplier_id  query  string  false  "proveedor"
// @Param        from         query  string  false  "desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "hasta (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {array}   dto.PurchaseReturnDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchase-returns [get]
func (h *PurchaseReturnHandler) List(c *fiber.Ctx) error {
	in, err := returnListRequest(c, "purchase_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Totales de devoluciones de compra
// @Tags         purchase-returns
// @Security     Bearer
// @Produce      json
// @Param        purchase_id  query  string  false  "compra original"
// @Param        supplier_id  query  string  false  "proveedor"
// @Param        from         query  string  false  "desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.PurchaseReturnSummaryDTO
// @Router       /api/purchase-returns/summary [get]
func (h *PurchaseReturnHandler) Summary(c *fiber.Ctx) error {
	in, err := returnListRequest(c, "purchase_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.Summary(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Remaining godoc
// @Summary      Cantidad aún devolvible de una compra
// @Tags         purchase-returns
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.RemainingQuantityDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id}/remaining [get]
func (h *PurchaseReturnHandler) Remaining(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.Remaining(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// returnListRequest arma los filtros de listado; parentKey es el parámetro de la transacción original.
func returnListRequest(c *fiber.Ctx, parentKey string) (dto.ReturnListRequest, error) {
	in := dto.ReturnListRequest{
		ParentID:   c.Query(parentKey),
		SupplierID: c.Query("supplier_id"),
		From:       c.Query("from"),
		To:         c.Query("to"),
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", 20),
			Offset: c.QueryInt("offset", 0),
		},
	}
	in.PageRequest.DefaultPage()
	if err := validateStruct(in); err != nil {
		return dto.ReturnListRequest{}, err
	}
	return in, nil
}
