// Package enrollment orquestra o fluxo de pré-matrícula: valida a etapa, resolve responsáveis,
// calcula o diff e grava só o que mudou, tudo dentro de uma transação por operação.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/dto"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	rules "github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/enrollment"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/logger"
)

// UseCase motor do fluxo de pré-matrícula.
type UseCase struct {
	tx       TxRunner
	resolver GuardianResolver
	metrics  Metrics
	receipts ReceiptGenerator
	log      *logger.Logger
	now      func() time.Time
}

// Option configura o UseCase.
type Option func(*UseCase)

// WithMetrics injeta os contadores do fluxo.
func WithMetrics(m Metrics) Option {
	return func(uc *UseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

// WithClock substitui o relógio (testes).
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

// NewUseCase constrói o caso de uso.
func NewUseCase(tx TxRunner, log *logger.Logger, opts ...Option) *UseCase {
	uc := &UseCase{
		tx:      tx,
		metrics: nopMetrics{},
		log:     log,
		now:     time.Now,
	}
	for _, o := range opts {
		o(uc)
	}
	uc.resolver = GuardianResolver{now: uc.now}
	return uc
}

// ── Leitura ──────────────────────────────────────────────────────────────────

// Status leitura pura: etapa, rótulo da próxima etapa, conclusão e pendências.
func (uc *UseCase) Status(ctx context.Context, enrollmentID string) (*dto.EnrollmentStatusResponse, error) {
	var out *entity.Enrollment
	err := uc.tx.RunEnrollment(ctx, func(st Stores) error {
		e, err := load(ctx, st, enrollmentID)
		out = e
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToStatus(out), nil
}

// ListByUser pré-matrículas do usuário autenticado, mais recentes primeiro.
func (uc *UseCase) ListByUser(ctx context.Context, userEmail string) ([]dto.EnrollmentStatusResponse, error) {
	email := rules.NormalizeEmail(userEmail)
	if email == "" {
		return nil, domain.ErrUnauthorized
	}
	var list []*entity.Enrollment
	err := uc.tx.RunEnrollment(ctx, func(st Stores) error {
		var err error
		list, err = st.Enrollments.ListByUser(ctx, email)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listar pré-matrículas: %w", err)
	}
	out := make([]dto.EnrollmentStatusResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *ToStatus(e))
	}
	return out, nil
}

// Get leitura completa: responsáveis (com o snapshot local aplicado), aluno e endereços.
func (uc *UseCase) Get(ctx context.Context, enrollmentID string) (*dto.EnrollmentDetailResponse, error) {
	var out *dto.EnrollmentDetailResponse
	err := uc.tx.RunEnrollment(ctx, func(st Stores) error {
		e, err := load(ctx, st, enrollmentID)
		if err != nil {
			return err
		}
		out, err = uc.detail(ctx, st, e)
		return err
	})
	return out, err
}

func (uc *UseCase) detail(ctx context.Context, st Stores, e *entity.Enrollment) (*dto.EnrollmentDetailResponse, error) {
	d := &dto.EnrollmentDetailResponse{
		EnrollmentStatusResponse: *ToStatus(e),
		UserEmail:                e.UserEmail,
		RemoteStudentID:          e.RemoteStudentID,
		IntegratedAt:             e.IntegratedAt,
		CreatedAt:                e.CreatedAt,
		UpdatedAt:                e.UpdatedAt,
	}

	s, err := st.Students.GetByID(ctx, e.StudentID)
	if err != nil {
		return nil, fmt.Errorf("carregar aluno: %w", err)
	}
	kinships := map[string]*entity.GuardianStudentLink{}
	if s != nil {
		sr := &dto.StudentResponse{
			ID:                    s.ID,
			Name:                  s.Name,
			BirthDate:             s.BirthDate,
			CPF:                   s.CPF,
			LivesWithGuardian:     s.LivesWithGuardian,
			LivesWithGuardianName: s.LivesWithGuardianName,
		}
		if s.AddressID != "" {
			a, err := st.Addresses.GetByID(ctx, s.AddressID)
			if err != nil {
				return nil, fmt.Errorf("carregar endereço do aluno: %w", err)
			}
			if a != nil {
				sr.Address = toAddress(*a)
			}
		}
		d.Student = sr

		links, err := st.Links.ListByStudent(ctx, s.ID)
		if err != nil {
			return nil, fmt.Errorf("carregar vínculos: %w", err)
		}
		for _, l := range links {
			kinships[l.GuardianID] = l
		}
	}

	for _, gid := range []string{e.PrimaryGuardianID, e.SecondGuardianID} {
		if gid == "" {
			continue
		}
		g, err := st.Guardians.GetByID(ctx, gid)
		if err != nil {
			return nil, fmt.Errorf("carregar responsável: %w", err)
		}
		if g == nil {
			continue
		}
		addr, err := st.Addresses.GetByID(ctx, g.AddressID)
		if err != nil {
			return nil, fmt.Errorf("carregar endereço do responsável: %w", err)
		}
		snap := e.ContactFor(g.ID)
		eff := rules.EffectiveContact(g, addr, snap)
		gr := &dto.GuardianResponse{
			ID:                     g.ID,
			Name:                   g.Name,
			CPF:                    g.CPF,
			RG:                     g.RG,
			Phone:                  eff.Phone,
			Email:                  eff.Email,
			FinancialResponsible:   g.FinancialResponsible,
			PedagogicalResponsible: g.PedagogicalResponsible,
			Address:                toAddress(eff.Address),
			Shared:                 snap != nil,
		}
		if l := kinships[g.ID]; l != nil {
			gr.Kinship = string(l.Kinship)
			gr.FinancialResponsible = l.FinancialResponsible
			gr.PedagogicalResponsible = l.PedagogicalResponsible
		}
		if gid == e.PrimaryGuardianID {
			d.PrimaryGuardian = gr
		} else {
			d.SecondGuardian = gr
		}
	}
	return d, nil
}

// ToStatus resumo de etapa devolvido por todas as operações.
func ToStatus(e *entity.Enrollment) *dto.EnrollmentStatusResponse {
	return &dto.EnrollmentStatusResponse{
		EnrollmentID:                 e.ID,
		Code:                         e.Code,
		PrimaryGuardianID:            e.PrimaryGuardianID,
		StudentID:                    e.StudentID,
		Stage:                        e.Stage,
		NextStage:                    string(rules.NextStage(rules.StateOf(e))),
		Completed:                    e.Completed,
		HasSecondGuardian:            e.HasSecondGuardian,
		PendingSecondGuardianData:    e.PendingSecondGuardianData,
		PendingSecondGuardianAddress: e.PendingSecondGuardianAddress,
		PendingStudentAddress:        e.PendingStudentAddress,
	}
}

func toAddress(a entity.Address) *dto.AddressResponse {
	if !rules.HasRealAddress(&a) {
		return nil
	}
	return &dto.AddressResponse{
		PostalCode:   a.PostalCode,
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
	}
}

// ── Infra comum das operações ────────────────────────────────────────────────

// run executa fn numa transação, conta rejeições por pré-condição e registra a etapa no sucesso.
func (uc *UseCase) run(ctx context.Context, stage rules.StageLabel, fn func(st Stores) error) error {
	err := uc.tx.RunEnrollment(ctx, fn)
	switch {
	case err == nil:
		uc.metrics.StageRecorded(string(stage))
	case errors.Is(err, domain.ErrPrecondition):
		uc.metrics.PreconditionRejected(string(stage))
		uc.log.Debug().Str("stage", string(stage)).Err(err).Msg("etapa rejeitada por pré-condição")
	}
	return err
}

func load(ctx context.Context, st Stores, id string) (*entity.Enrollment, error) {
	e, err := st.Enrollments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("carregar pré-matrícula: %w", err)
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

// loadOpen carrega a matrícula e rejeita as já concluídas.
func loadOpen(ctx context.Context, st Stores, id string) (*entity.Enrollment, error) {
	e, err := load(ctx, st, id)
	if err != nil {
		return nil, err
	}
	if e.Completed {
		return nil, domain.Precondition("pré-matrícula %s já concluída", e.Code)
	}
	return e, nil
}

// saveIfChanged grava a matrícula só se algum campo mudou em relação a before.
// Snapshots são sempre substituídos (nunca alterados no lugar), então a comparação é segura.
func (uc *UseCase) saveIfChanged(ctx context.Context, st Stores, before entity.Enrollment, e *entity.Enrollment) error {
	if reflect.DeepEqual(before, *e) {
		return nil
	}
	e.UpdatedAt = uc.now()
	if err := st.Enrollments.Update(ctx, e); err != nil {
		return fmt.Errorf("atualizar pré-matrícula: %w", domain.AsConflict(err))
	}
	return nil
}

func (uc *UseCase) loadGuardian(ctx context.Context, st Stores, id string) (*entity.Guardian, error) {
	g, err := st.Guardians.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("carregar responsável: %w", err)
	}
	if g == nil {
		return nil, fmt.Errorf("responsável %s: %w", id, domain.ErrNotFound)
	}
	return g, nil
}

// linkSpec vínculo desejado; nil nas flags mantém o valor gravado (ou false na criação).
type linkSpec struct {
	Kinship     entity.Kinship
	Financial   *bool
	Pedagogical *bool
	Overwrite   bool // atualiza parentesco/flags de um vínculo existente
}

// ensureLink cria o vínculo responsável↔aluno ou o atualiza; nunca duplica.
func (uc *UseCase) ensureLink(ctx context.Context, st Stores, studentID, guardianID string, spec linkSpec) error {
	l, err := st.Links.Get(ctx, studentID, guardianID)
	if err != nil {
		return fmt.Errorf("carregar vínculo: %w", err)
	}
	if l == nil {
		now := uc.now()
		l = &entity.GuardianStudentLink{
			ID:                     uuid.New().String(),
			StudentID:              studentID,
			GuardianID:             guardianID,
			Kinship:                spec.Kinship,
			FinancialResponsible:   spec.Financial != nil && *spec.Financial,
			PedagogicalResponsible: spec.Pedagogical != nil && *spec.Pedagogical,
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if err := st.Links.Create(ctx, l); err != nil {
			return fmt.Errorf("criar vínculo: %w", domain.AsConflict(err))
		}
		return nil
	}
	if !spec.Overwrite {
		return nil
	}
	changed := false
	if spec.Kinship != "" && l.Kinship != spec.Kinship {
		l.Kinship = spec.Kinship
		changed = true
	}
	if spec.Financial != nil && l.FinancialResponsible != *spec.Financial {
		l.FinancialResponsible = *spec.Financial
		changed = true
	}
	if spec.Pedagogical != nil && l.PedagogicalResponsible != *spec.Pedagogical {
		l.PedagogicalResponsible = *spec.Pedagogical
		changed = true
	}
	if !changed {
		return nil
	}
	l.UpdatedAt = uc.now()
	if err := st.Links.Update(ctx, l); err != nil {
		return fmt.Errorf("atualizar vínculo: %w", err)
	}
	return nil
}

// pruneLinks remove vínculos do aluno com responsáveis fora de keep, só se houver algum.
func (uc *UseCase) pruneLinks(ctx context.Context, st Stores, studentID string, keep ...string) error {
	links, err := st.Links.ListByStudent(ctx, studentID)
	if err != nil {
		return fmt.Errorf("listar vínculos: %w", err)
	}
	stale := 0
	for _, l := range links {
		if !contains(keep, l.GuardianID) {
			stale++
		}
	}
	if stale == 0 {
		return nil
	}
	n, err := st.Links.DeleteExcept(ctx, studentID, keep)
	if err != nil {
		return fmt.Errorf("remover vínculos antigos: %w", err)
	}
	uc.log.Info().Str("student_id", studentID).Int("removed", n).Msg("vínculos antigos removidos")
	return nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func addressPatch(a *dto.AddressRequest) entity.AddressPatch {
	if a == nil {
		return entity.AddressPatch{}
	}
	return entity.AddressPatch{
		PostalCode:   a.PostalCode,
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
	}
}

func newID() string { return uuid.New().String() }

// newCode código legível da pré-matrícula: PM- + 8 hexadecimais.
func newCode() string {
	h := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "PM-" + strings.ToUpper(h[:8])
}

func invalidDate() error {
	return fmt.Errorf("%w: data em formato não reconhecido (use aaaa-mm-dd ou dd/mm/aaaa)", domain.ErrInvalidInput)
}

// OwnerEmail e-mail do usuário dono da matrícula ("" quando foi iniciada sem usuário).
func (uc *UseCase) OwnerEmail(ctx context.Context, enrollmentID string) (string, error) {
	var owner string
	err := uc.tx.RunEnrollment(ctx, func(st Stores) error {
		e, err := load(ctx, st, enrollmentID)
		if err != nil {
			return err
		}
		owner = e.UserEmail
		return nil
	})
	return owner, err
}
