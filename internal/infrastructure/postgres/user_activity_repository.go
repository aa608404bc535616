package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/repository"
)

var _ repository.UserActivityRepository = (*UserActivityRepo)(nil)

// UserActivityRepo último acesso por e-mail.
type UserActivityRepo struct {
	q Querier
}

func NewUserActivityRepository(q Querier) *UserActivityRepo {
	return &UserActivityRepo{q: q}
}

func (r *UserActivityRepo) TouchLastLogin(ctx context.Context, email string, at time.Time) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_activity (email, last_login_at) VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET last_login_at = GREATEST(user_activity.last_login_at, EXCLUDED.last_login_at)`,
		email, at,
	)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}
