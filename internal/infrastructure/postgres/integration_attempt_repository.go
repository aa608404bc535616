package postgres

import (
	"context"
	"fmt"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/repository"
)

var _ repository.IntegrationAttemptRepository = (*IntegrationAttemptRepo)(nil)

// IntegrationAttemptRepo histórico das chamadas ao sistema escolar. Só inserção.
type IntegrationAttemptRepo struct {
	q Querier
}

func NewIntegrationAttemptRepository(q Querier) *IntegrationAttemptRepo {
	return &IntegrationAttemptRepo{q: q}
}

const attemptColumns = `id, enrollment_id, operation, entity_id, status_code, message, raw_response,
	envelope_digest, success, transport_error, warnings, created_at`

func (r *IntegrationAttemptRepo) Create(ctx context.Context, a *entity.IntegrationAttempt) error {
	warnings := a.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	_, err := r.q.Exec(ctx, `INSERT INTO integration_attempts (`+attemptColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		a.ID, a.EnrollmentID, a.Operation, a.EntityID, a.StatusCode, a.Message, a.RawResponse,
		a.EnvelopeDigest, a.Success, a.TransportError, warnings, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert integration attempt: %w", err)
	}
	return nil
}

func (r *IntegrationAttemptRepo) ListByEnrollment(ctx context.Context, enrollmentID string) ([]*entity.IntegrationAttempt, error) {
	rows, err := r.q.Query(ctx, `SELECT `+attemptColumns+` FROM integration_attempts
		WHERE enrollment_id = $1 ORDER BY created_at, id`, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("list integration attempts: %w", err)
	}
	defer rows.Close()
	var list []*entity.IntegrationAttempt
	for rows.Next() {
		var a entity.IntegrationAttempt
		if err := rows.Scan(&a.ID, &a.EnrollmentID, &a.Operation, &a.EntityID, &a.StatusCode, &a.Message,
			&a.RawResponse, &a.EnvelopeDigest, &a.Success, &a.TransportError, &a.Warnings, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan integration attempt: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
