package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/dto"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/enrollment"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/logger"
)

// EnrollmentHandler etapas da pré-matrícula (protegido).
type EnrollmentHandler struct {
	uc  *enrollment.UseCase
	log *logger.Logger
}

func NewEnrollmentHandler(uc *enrollment.UseCase, log *logger.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{uc: uc, log: log}
}

// RequireOwner rejeita acesso a matrícula de outro usuário. Matrículas sem dono passam.
func (h *EnrollmentHandler) RequireOwner(c *fiber.Ctx) error {
	owner, err := h.uc.OwnerEmail(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if owner != "" && !strings.EqualFold(owner, GetEmail(c)) {
		return writeError(c, h.log, domain.ErrForbidden)
	}
	return c.Next()
}

// Start POST /api/enrollments
func (h *EnrollmentHandler) Start(c *fiber.Ctx) error {
	var in dto.StartEnrollmentRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.Start(c.UserContext(), GetEmail(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/enrollments
func (h *EnrollmentHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.ListByUser(c.UserContext(), GetEmail(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(list)
}

// Get GET /api/enrollments/:id
func (h *EnrollmentHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Status GET /api/enrollments/:id/status
func (h *EnrollmentHandler) Status(c *fiber.Ctx) error {
	out, err := h.uc.Status(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// PrimaryAddress PUT /api/enrollments/:id/primary-address
func (h *EnrollmentHandler) PrimaryAddress(c *fiber.Ctx) error {
	var in dto.PrimaryAddressRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordPrimaryAddress(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SecondGuardian PUT /api/enrollments/:id/second-guardian
func (h *EnrollmentHandler) SecondGuardian(c *fiber.Ctx) error {
	var in dto.SecondGuardianRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordSecondGuardian(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SecondGuardianAddress PUT /api/enrollments/:id/second-guardian/address
func (h *EnrollmentHandler) SecondGuardianAddress(c *fiber.Ctx) error {
	var in dto.SecondGuardianAddressRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordSecondGuardianAddress(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Student PUT /api/enrollments/:id/student
func (h *EnrollmentHandler) Student(c *fiber.Ctx) error {
	var in dto.StudentRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordStudent(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// StudentAddress PUT /api/enrollments/:id/students/:studentId/address
func (h *EnrollmentHandler) StudentAddress(c *fiber.Ctx) error {
	var in dto.StudentAddressRequest
	if ok, err := bind(c, &in); !ok {
		return err
	}
	out, err := h.uc.RecordStudentAddress(c.UserContext(), c.Params("id"), c.Params("studentId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Receipt GET /api/enrollments/:id/receipt
func (h *EnrollmentHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.uc.Receipt(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
