// Package integration envia uma pré-matrícula concluída ao sistema escolar e guarda o
// resultado de cada operação remota.
package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/dto"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	rules "github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/enrollment"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/repository"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/logger"
)

// Repositories repositórios lidos e gravados pela integração.
type Repositories struct {
	Enrollments repository.EnrollmentRepository
	Guardians   repository.GuardianRepository
	Students    repository.StudentRepository
	Addresses   repository.AddressRepository
	Links       repository.LinkRepository
	Attempts    repository.IntegrationAttemptRepository
}

// UseCase dispara a integração. Não altera o estado do fluxo; só grava o código remoto do aluno
// e o histórico de tentativas. Reenvio é sempre decisão de quem chama.
type UseCase struct {
	repos   Repositories
	gateway Gateway
	metrics Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewUseCase gateway nil significa integração não configurada: Integrate devolve
// domain.ErrIntegrationConfig sem tocar na rede.
func NewUseCase(repos Repositories, gateway Gateway, metrics Metrics, log *logger.Logger) *UseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &UseCase{repos: repos, gateway: gateway, metrics: metrics, log: log, now: time.Now}
}

// Integrate carrega aluno e responsáveis da matrícula concluída e delega ao gateway.
// Sucesso parcial (aluno aceito, algum responsável rejeitado) não é erro.
func (uc *UseCase) Integrate(ctx context.Context, enrollmentID string) (*dto.IntegrationResponse, error) {
	// ── 1. Carregar e validar ────────────────────────────────────────────────
	e, err := uc.repos.Enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("integração: carregar pré-matrícula: %w", err)
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if !e.Completed {
		return nil, domain.Precondition("pré-matrícula %s ainda não concluída (próxima etapa %s)",
			e.Code, rules.NextStage(rules.StateOf(e)))
	}
	if uc.gateway == nil {
		return nil, domain.ErrIntegrationConfig
	}

	sub, err := uc.assemble(ctx, e)
	if err != nil {
		return nil, err
	}

	// ── 2. Enviar ────────────────────────────────────────────────────────────
	res, sendErr := uc.gateway.Integrate(ctx, sub)
	if res == nil {
		if sendErr == nil {
			sendErr = errors.New("integração: gateway sem resultado")
		}
		return nil, sendErr
	}

	// ── 3. Registrar tentativas e código remoto ──────────────────────────────
	uc.record(ctx, e.ID, res)
	if sendErr != nil {
		uc.log.Warn().Str("enrollment_id", e.ID).Err(sendErr).Msg("integração interrompida por falha de transporte")
		return nil, sendErr
	}

	if res.RemoteStudentID > 0 {
		id := res.RemoteStudentID
		now := uc.now()
		e.RemoteStudentID = &id
		e.IntegratedAt = &now
		e.UpdatedAt = now
		if err := uc.repos.Enrollments.Update(ctx, e); err != nil {
			return nil, fmt.Errorf("integração: gravar código remoto: %w", err)
		}
	}

	ok, failed := res.GuardianCounts()
	uc.log.Info().
		Str("enrollment_id", e.ID).
		Int("remote_student_id", res.RemoteStudentID).
		Int("guardian_success", ok).
		Int("guardian_failure", failed).
		Msg("integração concluída")

	return toResponse(e.ID, res), nil
}

// Attempts histórico de operações remotas da matrícula.
func (uc *UseCase) Attempts(ctx context.Context, enrollmentID string) ([]*entity.IntegrationAttempt, error) {
	e, err := uc.repos.Enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("integração: carregar pré-matrícula: %w", err)
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return uc.repos.Attempts.ListByEnrollment(ctx, enrollmentID)
}

// assemble monta o registro a enviar, com o contato efetivo de cada responsável nesta matrícula.
func (uc *UseCase) assemble(ctx context.Context, e *entity.Enrollment) (Submission, error) {
	s, err := uc.repos.Students.GetByID(ctx, e.StudentID)
	if err != nil {
		return Submission{}, fmt.Errorf("integração: carregar aluno: %w", err)
	}
	if s == nil {
		return Submission{}, fmt.Errorf("integração: aluno %s: %w", e.StudentID, domain.ErrNotFound)
	}
	sub := Submission{EnrollmentID: e.ID, Student: *s}
	if s.AddressID != "" {
		a, err := uc.repos.Addresses.GetByID(ctx, s.AddressID)
		if err != nil {
			return Submission{}, fmt.Errorf("integração: carregar endereço do aluno: %w", err)
		}
		if a != nil {
			sub.StudentAddress = *a
		}
	}

	links, err := uc.repos.Links.ListByStudent(ctx, s.ID)
	if err != nil {
		return Submission{}, fmt.Errorf("integração: listar vínculos: %w", err)
	}
	ids := []string{e.PrimaryGuardianID}
	for _, l := range links {
		if l.GuardianID != e.PrimaryGuardianID {
			ids = append(ids, l.GuardianID)
		}
	}
	guardians, err := uc.repos.Guardians.ListByIDs(ctx, ids)
	if err != nil {
		return Submission{}, fmt.Errorf("integração: carregar responsáveis: %w", err)
	}
	byID := make(map[string]*entity.Guardian, len(guardians))
	for _, g := range guardians {
		byID[g.ID] = g
	}

	primary, ok := byID[e.PrimaryGuardianID]
	if !ok {
		return Submission{}, fmt.Errorf("integração: responsável principal %s: %w", e.PrimaryGuardianID, domain.ErrNotFound)
	}
	sub.Primary, err = uc.guardianLink(ctx, e, primary, findLink(links, primary.ID))
	if err != nil {
		return Submission{}, err
	}
	for _, l := range links {
		g, ok := byID[l.GuardianID]
		if !ok {
			continue
		}
		gl, err := uc.guardianLink(ctx, e, g, l)
		if err != nil {
			return Submission{}, err
		}
		sub.Guardians = append(sub.Guardians, gl)
	}
	return sub, nil
}

func (uc *UseCase) guardianLink(ctx context.Context, e *entity.Enrollment, g *entity.Guardian, l *entity.GuardianStudentLink) (GuardianLink, error) {
	addr, err := uc.repos.Addresses.GetByID(ctx, g.AddressID)
	if err != nil {
		return GuardianLink{}, fmt.Errorf("integração: carregar endereço do responsável: %w", err)
	}
	eff := rules.EffectiveContact(g, addr, e.ContactFor(g.ID))
	out := GuardianLink{Guardian: *g, Address: eff.Address}
	out.Guardian.Phone = eff.Phone
	out.Guardian.Email = eff.Email
	if l != nil {
		out.Kinship = string(l.Kinship)
		out.Financial = l.FinancialResponsible
		out.Pedagogical = l.PedagogicalResponsible
	} else {
		out.Financial = g.FinancialResponsible
		out.Pedagogical = g.PedagogicalResponsible
	}
	return out, nil
}

func findLink(links []*entity.GuardianStudentLink, guardianID string) *entity.GuardianStudentLink {
	for _, l := range links {
		if l.GuardianID == guardianID {
			return l
		}
	}
	return nil
}

// record grava uma tentativa por operação. Falha ao gravar é só logada: o resultado remoto
// já aconteceu e precisa chegar a quem chamou.
func (uc *UseCase) record(ctx context.Context, enrollmentID string, res *Result) {
	ops := append([]OperationResult{res.Student}, res.Guardians...)
	for _, op := range ops {
		if op.Operation == "" {
			continue
		}
		uc.metrics.IntegrationOperation(op.Operation, op.Success())
		a := &entity.IntegrationAttempt{
			ID:             uuid.New().String(),
			EnrollmentID:   enrollmentID,
			Operation:      op.Operation,
			EntityID:       op.EntityID,
			StatusCode:     int(op.Status.Code),
			Message:        op.Status.Message,
			RawResponse:    op.Status.Raw,
			EnvelopeDigest: op.EnvelopeDigest,
			Success:        op.Success(),
			Warnings:       op.Warnings,
			CreatedAt:      uc.now(),
		}
		if op.TransportErr != nil {
			a.TransportError = op.TransportErr.Error()
		}
		if err := uc.repos.Attempts.Create(ctx, a); err != nil {
			uc.log.Error().Err(err).Str("enrollment_id", enrollmentID).Str("operation", op.Operation).
				Msg("não foi possível gravar tentativa de integração")
		}
	}
}

func toResponse(enrollmentID string, res *Result) *dto.IntegrationResponse {
	out := &dto.IntegrationResponse{
		EnrollmentID: enrollmentID,
		Student:      toOperation(res.Student),
		Guardians:    make([]dto.OperationResultResponse, 0, len(res.Guardians)),
	}
	if res.RemoteStudentID > 0 {
		id := res.RemoteStudentID
		out.RemoteStudentID = &id
	}
	for _, g := range res.Guardians {
		out.Guardians = append(out.Guardians, toOperation(g))
	}
	out.GuardianSuccess, out.GuardianFailure = res.GuardianCounts()
	return out
}

func toOperation(r OperationResult) dto.OperationResultResponse {
	out := dto.OperationResultResponse{
		Operation:      r.Operation,
		EntityID:       r.EntityID,
		Success:        r.Success(),
		StatusCode:     int(r.Status.Code),
		Decoded:        r.Status.Decoded,
		Message:        r.Status.Message,
		RawResponse:    r.Status.Raw,
		EnvelopeDigest: r.EnvelopeDigest,
		Warnings:       r.Warnings,
	}
	if r.TransportErr != nil {
		out.TransportError = r.TransportErr.Error()
	}
	return out
}
