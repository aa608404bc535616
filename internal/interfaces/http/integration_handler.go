package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/integration"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/logger"
)

// IntegrationHandler envio ao sistema escolar (protegido).
type IntegrationHandler struct {
	uc  *integration.UseCase
	log *logger.Logger
}

func NewIntegrationHandler(uc *integration.UseCase, log *logger.Logger) *IntegrationHandler {
	return &IntegrationHandler{uc: uc, log: log}
}

// Integrate POST /api/enrollments/:id/integration
// Sucesso parcial volta 200 com o detalhe por operação.
func (h *IntegrationHandler) Integrate(c *fiber.Ctx) error {
	out, err := h.uc.Integrate(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Attempts GET /api/enrollments/:id/integration/attempts
func (h *IntegrationHandler) Attempts(c *fiber.Ctx) error {
	list, err := h.uc.Attempts(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(list)
}
