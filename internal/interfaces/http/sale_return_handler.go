package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/returns-api/internal/application/dto"
	"github.com/jhoicas/returns-api/internal/application/returns"
	"github.com/jhoicas/returns-api/pkg/logger"
)

// SaleReturnHandler devoluciones de clientes y consulta de ventas con su neto (admin o vendedor).
type SaleReturnHandler struct {
	uc  *returns.SaleReturnUseCase
	log *logger.Logger
}

// NewSaleReturnHandler construye el handler.
func NewSaleReturnHandler(uc *returns.SaleReturnUseCase, log *logger.Logger) *SaleReturnHandler {
	return &SaleReturnHandler{uc: uc, log: log}
}

// Validate godoc
// @Summary      Validar devolución de venta (sin registrar)
// @Tags         sale-returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateSaleReturnRequest  true  "sale_id, items"
// @Success      200   {object}  dto.ValidationResult
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sale-returns/validate [post]
func (h *SaleReturnHandler) Validate(c *fiber.Ctx) error {
	var in dto.ValidateSaleReturnRequest
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
// @Summary      Registrar devolución de venta
// @Tags         sale-returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "clave para repetir el envío sin duplicar"
// @Param        body  body  dto.ProcessSaleReturnRequest  true  "sale_id, items, reason, notes"
// @Success      201   {object}  dto.ProcessSaleReturnResult
// @Failure      409   {object}  dto.ProcessSaleReturnResult
// @Failure      422   {object}  dto.ProcessSaleReturnResult
// @Failure      503   {object}  dto.ProcessSaleReturnResult
// @Router       /api/sale-returns [post]
func (h *SaleReturnHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessSaleReturnRequest
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
// @Summary      Listar devoluciones de venta
// @Tags         sale-returns
// @Security     Bearer
// @Produce      json
// @Param        sale_id  query  string  false  "venta original"
// @Param        from     query  string  false  "desde (YYYY-MM-DD)"
// @Param        to       query  string  false  "hasta (YYYY-MM-DD)"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.SaleReturnDTO
// @Router       /api/sale-returns [get]
func (h *SaleReturnHandler) List(c *fiber.Ctx) error {
	in, err := returnListRequest(c, "sale_id")
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
// @Summary      Totales de devoluciones de venta
// @Tags         sale-returns
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleReturnSummaryDTO
// @Router       /api/sale-returns/summary [get]
func (h *SaleReturnHandler) Summary(c *fiber.Ctx) error {
	in, err := returnListRequest(c, "sale_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.Summary(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetSale godoc
// @Summary      Venta con total devuelto y neto
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleRecordDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleReturnHandler) GetSale(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetSale(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "desde (YYYY-MM-DD)"
// @Param        to      query  string  false  "hasta (YYYY-MM-DD)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.SaleRecordDTO
// @Router       /api/sales [get]
func (h *SaleReturnHandler) ListSales(c *fiber.Ctx) error {
	in, err := saleListRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.ListSales(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SalesSummary godoc
// @Summary      Totales de ventas (bruto, devuelto, neto)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.SalesSummaryDTO
// @Router       /api/sales/summary [get]
func (h *SaleReturnHandler) SalesSummary(c *fiber.Ctx) error {
	in, err := saleListRequest(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.uc.SalesSummary(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func saleListRequest(c *fiber.Ctx) (dto.SaleListRequest, error) {
	in := dto.SaleListRequest{
		From: c.Query("from"),
		To:   c.Query("to"),
		PageRequest: dto.PageRequest{
			Limit:  c.QueryInt("limit", 20),
			Offset: c.QueryInt("offset", 0),
		},
	}
	in.PageRequest.DefaultPage()
	if err := validateStruct(in); err != nil {
		return dto.SaleListRequest{}, err
	}
	return in, nil
}
