package repository

import (
	"context"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
)

// EnrollmentRepository porta de persistência da pré-matrícula.
// Get* devolvem (nil, nil) quando não há registro.
type EnrollmentRepository interface {
	Create(ctx context.Context, e *entity.Enrollment) error
	GetByID(ctx context.Context, id string) (*entity.Enrollment, error)
	// FindIncompleteByUser última matrícula não concluída do usuário.
	FindIncompleteByUser(ctx context.Context, userEmail string) (*entity.Enrollment, error)
	// FindIncompleteByPrimaryGuardian última matrícula não concluída iniciada pelo responsável.
	FindIncompleteByPrimaryGuardian(ctx context.Context, guardianID string) (*entity.Enrollment, error)
	ListByUser(ctx context.Context, userEmail string) ([]*entity.Enrollment, error)
	// CountReferencingGuardian quantas matrículas, fora excludeID, usam o responsável como principal ou segundo.
	CountReferencingGuardian(ctx context.Context, guardianID, excludeID string) (int, error)
	Update(ctx context.Context, e *entity.Enrollment) error
}
