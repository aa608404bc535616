package repository

import (
	"context"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
)

// StudentRepository porta de persistência de alunos.
type StudentRepository interface {
	Create(ctx context.Context, s *entity.Student) error
	GetByID(ctx context.Context, id string) (*entity.Student, error)
	FindByCPF(ctx context.Context, cpf string) (*entity.Student, error)
	Update(ctx context.Context, s *entity.Student) error
}
