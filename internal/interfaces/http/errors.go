package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/returns-api/internal/application/dto"
	"github.com/jhoicas/returns-api/internal/domain"
	"github.com/jhoicas/returns-api/pkg/logger"
)

// failureStatus código HTTP para el error tipado de ProcessReturnResult.
func failureStatus(code string) int {
	switch code {
	case dto.ErrorValidationFailed:
		return fiber.StatusUnprocessableEntity
	case dto.ErrorIntegrity:
		return fiber.StatusConflict
	case dto.ErrorPersistence:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError traduce errores de casos de uso de lectura/validación a dto.ErrorResponse.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	if v, ok := domain.AsValidation(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: v.Reason, Message: v.Message})
	}
	if v, ok := domain.AsIntegrity(err); ok {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INTEGRITY", Message: v.Error()})
	}
	if v, ok := domain.AsPersistence(err); ok {
		log.Error().Err(v).Str("path", c.Path()).Msg("almacén no disponible")
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: "el almacén no está disponible, intente de nuevo"})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
