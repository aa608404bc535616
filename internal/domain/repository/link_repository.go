package repository

import (
	"context"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
)

// LinkRepository porta de persistência dos vínculos responsável↔aluno.
type LinkRepository interface {
	Create(ctx context.Context, l *entity.GuardianStudentLink) error
	Get(ctx context.Context, studentID, guardianID string) (*entity.GuardianStudentLink, error)
	// ListByStudent vínculos do aluno em ordem de criação.
	ListByStudent(ctx context.Context, studentID string) ([]*entity.GuardianStudentLink, error)
	Update(ctx context.Context, l *entity.GuardianStudentLink) error
	// DeleteExcept remove os vínculos do aluno com responsáveis fora de keep; devolve quantos removeu.
	DeleteExcept(ctx context.Context, studentID string, keep []string) (int, error)
}
