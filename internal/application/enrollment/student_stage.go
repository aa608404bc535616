package enrollment

import (
	"context"
	"fmt"
	"strings"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/dto"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	rules "github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/enrollment"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/text"
)

// ── Etapa 3: dados do aluno ──────────────────────────────────────────────────

// RecordStudent exige etapa ≥ 2. CPF de outro aluno é conflito e nada é gravado.
func (uc *UseCase) RecordStudent(ctx context.Context, enrollmentID string, in dto.StudentRequest) (*dto.EnrollmentStatusResponse, error) {
	if !rules.ValidDates(in.BirthDate) {
		return nil, invalidDate()
	}
	fields := rules.StudentFields{
		Name:          in.Name,
		Gender:        in.Gender,
		BirthDate:     in.BirthDate,
		Birthplace:    in.Birthplace,
		Nationality:   in.Nationality,
		CPF:           in.CPF,
		MaritalStatus: in.MaritalStatus,
		Phone:         in.Phone,
		Email:         in.Email,
	}

	var out *entity.Enrollment
	err := uc.run(ctx, rules.LabelStudent, func(st Stores) error {
		e, err := loadOpen(ctx, st, enrollmentID)
		if err != nil {
			return err
		}
		if e.Stage < rules.StagePrimaryAddress {
			return domain.Precondition("endereço do responsável principal (etapa 2) ainda não informado")
		}
		before := *e

		s, err := uc.loadStudent(ctx, st, e.StudentID)
		if err != nil {
			return err
		}

		patch := rules.DiffStudent(s, fields)
		if patch.CPF != nil {
			other, err := st.Students.FindByCPF(ctx, *patch.CPF)
			if err != nil {
				return fmt.Errorf("buscar aluno por CPF: %w", err)
			}
			if other != nil && other.ID != s.ID {
				return domain.Conflict("cpf", "CPF já cadastrado para outro aluno")
			}
		}
		if err := uc.updateStudent(ctx, st, s, patch); err != nil {
			return err
		}

		if e.Stage < rules.StageStudent {
			e.PendingStudentAddress = true
		}
		e.Stage = rules.Advance(e.Stage, rules.StageStudent)

		if err := uc.saveIfChanged(ctx, st, before, e); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToStatus(out), nil
}

// ── Etapa 3b: endereço do aluno ──────────────────────────────────────────────

// RecordStudentAddress grava o endereço do aluno, copiado de um responsável vinculado
// ("mora com <nome>") ou informado diretamente. Recalcula a conclusão e, na primeira vez,
// congela nome/documento/e-mail do responsável principal na matrícula.
func (uc *UseCase) RecordStudentAddress(ctx context.Context, enrollmentID, studentID string, in dto.StudentAddressRequest) (*dto.EnrollmentStatusResponse, error) {
	var out *entity.Enrollment
	completedNow := false
	err := uc.run(ctx, rules.LabelStudentAddress, func(st Stores) error {
		e, err := loadOpen(ctx, st, enrollmentID)
		if err != nil {
			return err
		}
		s, err := uc.loadStudent(ctx, st, studentID)
		if err != nil {
			return err
		}
		if s.EnrollmentID != e.ID || e.StudentID != s.ID {
			return domain.Precondition("o aluno não pertence a esta pré-matrícula")
		}
		if e.Stage < rules.StageStudent {
			return domain.Precondition("dados do aluno (etapa 3) ainda não informados")
		}
		before := *e

		var (
			addrIn addressInput
			patch  entity.StudentPatch
		)
		if in.LivesWithGuardian {
			name := strings.TrimSpace(in.GuardianName)
			src, srcAddr, err := uc.findLinkedGuardian(ctx, st, e, s.ID, name)
			if err != nil {
				return err
			}
			if !rules.HasRealAddress(&srcAddr) {
				return domain.Precondition("o responsável %s ainda não tem endereço informado", src.Name)
			}
			addrIn = copiedAddress(srcAddr)
			if !s.LivesWithGuardian {
				yes := true
				patch.LivesWithGuardian = &yes
			}
			if s.LivesWithGuardianName != src.Name {
				patch.LivesWithGuardianName = &src.Name
			}
		} else {
			if in.Address == nil && s.AddressID == "" {
				return fmt.Errorf("%w: informe o endereço do aluno", domain.ErrInvalidInput)
			}
			addrIn = partialAddress(addressPatch(in.Address))
			if s.LivesWithGuardian {
				no, empty := false, ""
				patch.LivesWithGuardian = &no
				patch.LivesWithGuardianName = &empty
			}
		}

		if err := uc.upsertStudentAddress(ctx, st, s, addrIn); err != nil {
			return err
		}
		if err := uc.updateStudent(ctx, st, s, patch); err != nil {
			return err
		}

		e.PendingStudentAddress = false
		if !e.SnapshotCaptured() {
			if err := uc.capturePrimary(ctx, st, e); err != nil {
				return err
			}
		}
		if completedNow, err = uc.settle(ctx, st, e); err != nil {
			return err
		}

		if err := uc.saveIfChanged(ctx, st, before, e); err != nil {
			return err
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	if completedNow {
		uc.completed(out)
	}
	return ToStatus(out), nil
}

// findLinkedGuardian responsável vinculado ao aluno cujo nome confere (sem diferenciar
// maiúsculas nem acentos) e seu endereço efetivo nesta matrícula.
func (uc *UseCase) findLinkedGuardian(ctx context.Context, st Stores, e *entity.Enrollment, studentID, name string) (*entity.Guardian, entity.Address, error) {
	if name == "" {
		return nil, entity.Address{}, fmt.Errorf("%w: informe com qual responsável o aluno mora", domain.ErrInvalidInput)
	}
	links, err := st.Links.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, entity.Address{}, fmt.Errorf("listar vínculos: %w", err)
	}
	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.GuardianID)
	}
	guardians, err := st.Guardians.ListByIDs(ctx, ids)
	if err != nil {
		return nil, entity.Address{}, fmt.Errorf("carregar responsáveis: %w", err)
	}
	for _, g := range guardians {
		if !text.EqualFold(g.Name, name) {
			continue
		}
		addr, err := st.Addresses.GetByID(ctx, g.AddressID)
		if err != nil {
			return nil, entity.Address{}, fmt.Errorf("carregar endereço do responsável: %w", err)
		}
		eff := rules.EffectiveContact(g, addr, e.ContactFor(g.ID))
		return g, eff.Address, nil
	}
	return nil, entity.Address{}, domain.Precondition("%q não é responsável vinculado ao aluno", name)
}

// upsertStudentAddress cria a linha de endereço do aluno na primeira vez; depois aplica o diff.
func (uc *UseCase) upsertStudentAddress(ctx context.Context, st Stores, s *entity.Student, in addressInput) error {
	if s.AddressID != "" {
		cur, err := st.Addresses.GetByID(ctx, s.AddressID)
		if err != nil {
			return fmt.Errorf("carregar endereço do aluno: %w", err)
		}
		if cur != nil {
			patch := in.diff(cur)
			if patch.IsEmpty() {
				return nil
			}
			patch.Apply(cur)
			cur.UpdatedAt = uc.now()
			if err := st.Addresses.Update(ctx, cur); err != nil {
				return fmt.Errorf("atualizar endereço do aluno: %w", err)
			}
			return nil
		}
	}
	a := rules.PlaceholderAddress()
	in.diff(a).Apply(a)
	now := uc.now()
	a.ID, a.CreatedAt, a.UpdatedAt = newID(), now, now
	if err := st.Addresses.Create(ctx, a); err != nil {
		return fmt.Errorf("criar endereço do aluno: %w", err)
	}
	s.AddressID = a.ID
	s.UpdatedAt = now
	if err := st.Students.Update(ctx, s); err != nil {
		return fmt.Errorf("atualizar aluno: %w", err)
	}
	return nil
}

// settle recalcula Completed; devolve true quando a matrícula acabou de ser concluída.
func (uc *UseCase) settle(ctx context.Context, st Stores, e *entity.Enrollment) (bool, error) {
	if e.Completed || !rules.StateOf(e).IsComplete() {
		return false, nil
	}
	e.Completed = true
	if !e.SnapshotCaptured() {
		if err := uc.capturePrimary(ctx, st, e); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (uc *UseCase) completed(e *entity.Enrollment) {
	uc.metrics.EnrollmentCompleted()
	uc.log.Info().Str("enrollment_id", e.ID).Str("code", e.Code).Msg("pré-matrícula concluída")
}

// capturePrimary congela nome, documento e e-mail do responsável principal.
func (uc *UseCase) capturePrimary(ctx context.Context, st Stores, e *entity.Enrollment) error {
	p, err := uc.loadGuardian(ctx, st, e.PrimaryGuardianID)
	if err != nil {
		return err
	}
	doc := p.CPF
	if doc == "" {
		doc = p.RG
	}
	email := p.Email
	if e.PrimaryContact != nil && e.PrimaryContact.Email != "" {
		email = e.PrimaryContact.Email
	}
	e.PrimaryGuardianName = p.Name
	e.PrimaryGuardianDocument = doc
	e.PrimaryGuardianEmail = email
	return nil
}

func (uc *UseCase) loadStudent(ctx context.Context, st Stores, id string) (*entity.Student, error) {
	s, err := st.Students.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("carregar aluno: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("aluno %s: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

func (uc *UseCase) updateStudent(ctx context.Context, st Stores, s *entity.Student, p entity.StudentPatch) error {
	if p.IsEmpty() {
		return nil
	}
	p.Apply(s)
	s.UpdatedAt = uc.now()
	if err := st.Students.Update(ctx, s); err != nil {
		return fmt.Errorf("atualizar aluno: %w", domain.AsConflict(err))
	}
	return nil
}
