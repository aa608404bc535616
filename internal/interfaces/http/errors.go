package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/dto"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/logger"
)

// writeError traduz erros de domínio em status HTTP + dto.ErrorResponse.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var (
		pre  *domain.PreconditionError
		conf *domain.ConflictError
		te   *domain.TransportError
	)
	switch {
	case errors.As(err, &pre):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PRECONDITION", Message: pre.Reason})
	case errors.As(err, &conf):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: conf.Reason, Field: conf.Field})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pré-matrícula não encontrada"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "pré-matrícula de outro usuário"})
	case errors.As(err, &te):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "TRANSPORT", Message: te.Error()})
	case errors.Is(err, domain.ErrIntegrationConfig):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "INTEGRATION_DISABLED", Message: err.Error()})
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("erro interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "erro interno"})
}
