package enrollment

import (
	"context"
	"fmt"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/dto"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	rules "github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/enrollment"
)

// Start etapa 1: resolve (ou cria) o responsável principal e abre a pré-matrícula.
//
// Reaproveita a pré-matrícula não concluída do mesmo usuário ou, sem usuário, a do mesmo
// responsável. Chamadas repetidas com o mesmo documento devolvem o mesmo responsável e a
// mesma matrícula.
func (uc *UseCase) Start(ctx context.Context, userEmail string, in dto.StartEnrollmentRequest) (*dto.EnrollmentStatusResponse, error) {
	if !rules.ValidDates(in.BirthDate) {
		return nil, invalidDate()
	}
	fields := rules.GuardianFields{
		Name:          &in.Name,
		CPF:           &in.CPF,
		RG:            &in.RG,
		Gender:        in.Gender,
		BirthDate:     in.BirthDate,
		MaritalStatus: in.MaritalStatus,
		LegalEntity:   in.LegalEntity,
		Phone:         in.Phone,
		Email:         in.Email,
	}
	userEmail = rules.NormalizeEmail(userEmail)

	var out *entity.Enrollment
	created := false
	err := uc.run(ctx, rules.StageLabel("1"), func(st Stores) error {
		res, err := uc.resolver.Resolve(ctx, st, fields, true)
		if err != nil {
			return err
		}
		g := res.Guardian

		e, err := findReusable(ctx, st, userEmail, g.ID)
		if err != nil {
			return err
		}
		if e == nil {
			out, err = uc.create(ctx, st, userEmail, g)
			created = err == nil
			return err
		}

		before := *e
		if e.PrimaryGuardianID != g.ID {
			if e.Stage > rules.StageStarted {
				return domain.Conflict("cpf", "já existe pré-matrícula em andamento com outro responsável principal")
			}
			if err := uc.pruneLinks(ctx, st, e.StudentID, g.ID); err != nil {
				return err
			}
			e.PrimaryGuardianID = g.ID
			e.PrimaryContact = nil
		}
		if e.UserEmail == "" && userEmail != "" {
			e.UserEmail = userEmail
		}
		if err := uc.ensureLink(ctx, st, e.StudentID, g.ID, principalLink()); err != nil {
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
	uc.log.Info().
		Str("enrollment_id", out.ID).
		Str("code", out.Code).
		Str("guardian_id", out.PrimaryGuardianID).
		Bool("created", created).
		Msg("pré-matrícula iniciada")
	return ToStatus(out), nil
}

// findReusable matrícula não concluída do usuário; sem usuário (ou sem achado), a do responsável,
// desde que não pertença a outro usuário.
func findReusable(ctx context.Context, st Stores, userEmail, guardianID string) (*entity.Enrollment, error) {
	if userEmail != "" {
		e, err := st.Enrollments.FindIncompleteByUser(ctx, userEmail)
		if err != nil {
			return nil, fmt.Errorf("buscar pré-matrícula do usuário: %w", err)
		}
		if e != nil {
			return e, nil
		}
	}
	e, err := st.Enrollments.FindIncompleteByPrimaryGuardian(ctx, guardianID)
	if err != nil {
		return nil, fmt.Errorf("buscar pré-matrícula do responsável: %w", err)
	}
	if e != nil && e.UserEmail != "" && userEmail != "" && e.UserEmail != userEmail {
		return nil, nil
	}
	return e, nil
}

// create abre a matrícula com aluno provisório e o vínculo "principal".
func (uc *UseCase) create(ctx context.Context, st Stores, userEmail string, g *entity.Guardian) (*entity.Enrollment, error) {
	now := uc.now()
	e := &entity.Enrollment{
		ID:                newID(),
		Code:              newCode(),
		UserEmail:         userEmail,
		Stage:             rules.StageStarted,
		PrimaryGuardianID: g.ID,
		StudentID:         newID(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := st.Enrollments.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("criar pré-matrícula: %w", domain.AsConflict(err))
	}
	s := &entity.Student{
		ID:           e.StudentID,
		EnrollmentID: e.ID,
		Name:         rules.PlaceholderText,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := st.Students.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("criar aluno provisório: %w", err)
	}
	if err := uc.ensureLink(ctx, st, s.ID, g.ID, principalLink()); err != nil {
		return nil, err
	}
	return e, nil
}

func principalLink() linkSpec {
	yes := true
	return linkSpec{Kinship: entity.KinshipPrincipal, Financial: &yes, Pedagogical: &yes}
}
