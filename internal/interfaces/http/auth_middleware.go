package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/dto"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/repository"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/jwt"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/logger"
)

// Locals keys para UserID e e-mail no Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
)

const touchTimeout = 5 * time.Second

// AuthConfig verificação do token e registro do último acesso (opcional).
type AuthConfig struct {
	Secret   string
	Issuer   string
	Activity repository.UserActivityRepository
	Log      *logger.Logger
}

// AuthMiddleware valida o Bearer Token JWT e coloca UserID e e-mail em c.Locals.
// O último acesso é gravado em segundo plano; falha ali só gera log.
func AuthMiddleware(cfg AuthConfig) fiber.Handler {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "header Authorization obrigatório"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vazio"})
		}
		id, err := jwt.Parse(cfg.Secret, cfg.Issuer, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido ou expirado"})
		}
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalEmail, id.Email)

		if cfg.Activity != nil && id.Email != "" {
			go touchLastLogin(cfg.Activity, log, id.Email, time.Now())
		}
		return c.Next()
	}
}

func touchLastLogin(repo repository.UserActivityRepository, log *logger.Logger, email string, at time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), touchTimeout)
	defer cancel()
	if err := repo.TouchLastLogin(ctx, email, at); err != nil {
		log.Warn().Err(err).Str("email", email).Msg("não foi possível registrar o último acesso")
	}
}

// GetUserID devolve o UserID do contexto (depois do middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetEmail devolve o e-mail do usuário autenticado.
func GetEmail(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalEmail).(string)
	return s
}
