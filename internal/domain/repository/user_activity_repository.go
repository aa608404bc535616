package repository

import (
	"context"
	"time"
)

// UserActivityRepository registra o último acesso do usuário autenticado.
type UserActivityRepository interface {
	TouchLastLogin(ctx context.Context, email string, at time.Time) error
}
