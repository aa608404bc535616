package repository

import (
	"context"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
)

// IntegrationAttemptRepository histórico de chamadas ao sistema escolar.
type IntegrationAttemptRepository interface {
	Create(ctx context.Context, a *entity.IntegrationAttempt) error
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]*entity.IntegrationAttempt, error)
}
