package integration

import (
	"context"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/escolar"
)

// GuardianLink responsável a enviar, com endereço e contato já resolvidos para a matrícula.
type GuardianLink struct {
	Guardian    entity.Guardian
	Address     entity.Address
	Kinship     string // texto livre; o adaptador normaliza para o código remoto
	Financial   bool
	Pedagogical bool
}

// Submission registro completo de uma pré-matrícula concluída.
type Submission struct {
	EnrollmentID   string
	Student        entity.Student
	StudentAddress entity.Address
	Primary        GuardianLink
	Guardians      []GuardianLink // vínculos do aluno em ordem de criação (pode repetir o principal)
}

// OperationResult resultado de uma operação remota. Rejeição remota é dado (Status), não erro;
// TransportErr só é preenchido quando a chamada nem obteve resposta válida.
type OperationResult struct {
	Operation      string
	EntityID       string
	Status         escolar.Status
	RemoteID       int
	EnvelopeDigest string
	Warnings       []string
	TransportErr   error
}

// Success sucesso remoto decodificado.
func (r OperationResult) Success() bool {
	return r.TransportErr == nil && r.Status.Success()
}

// Result resultado da integração. Com falha no aluno, Guardians fica vazio.
type Result struct {
	RemoteStudentID int
	Student         OperationResult
	Guardians       []OperationResult
}

// GuardianCounts quantos responsáveis foram aceitos e rejeitados.
func (r *Result) GuardianCounts() (ok, failed int) {
	for _, g := range r.Guardians {
		if g.Success() {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}

// Gateway porta de saída para o sistema escolar (SOAP).
// Devolve *domain.TransportError quando o envio do aluno falha por rede/HTTP; o Result
// parcial continua sendo devolvido para diagnóstico.
type Gateway interface {
	Integrate(ctx context.Context, sub Submission) (*Result, error)
}

// Metrics contadores da integração.
type Metrics interface {
	IntegrationOperation(operation string, success bool)
}

type nopMetrics struct{}

func (nopMetrics) IntegrationOperation(string, bool) {}
