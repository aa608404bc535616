package enrollment

import (
	"context"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/repository"
)

// Stores repositórios atados à mesma transação.
type Stores struct {
	Enrollments repository.EnrollmentRepository
	Guardians   repository.GuardianRepository
	Students    repository.StudentRepository
	Addresses   repository.AddressRepository
	Links       repository.LinkRepository
}

// TxRunner executa fn dentro de uma transação de BD com os repositórios atados a ela.
// Erro devolvido por fn faz rollback.
type TxRunner interface {
	RunEnrollment(ctx context.Context, fn func(st Stores) error) error
}

// Metrics contadores do fluxo. Implementação nula em testes.
type Metrics interface {
	StageRecorded(stage string)
	EnrollmentCompleted()
	PreconditionRejected(operation string)
}

type nopMetrics struct{}

func (nopMetrics) StageRecorded(string)        {}
func (nopMetrics) EnrollmentCompleted()        {}
func (nopMetrics) PreconditionRejected(string) {}
