package http

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/dto"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// bind lê o JSON e valida o formato. ok=false significa que a resposta de erro já foi escrita
// e o handler deve devolver err.
func bind(c *fiber.Ctx, in any) (ok bool, err error) {
	if err := c.BodyParser(in); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			fe := ve[0]
			return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: fmt.Sprintf("%s: regra %s", fe.Namespace(), fe.Tag()),
				Field:   fe.Field(),
			})
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return true, nil
}
