package enrollment

import (
	"context"
	"fmt"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/dto"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	rules "github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/enrollment"
)

// ── Etapa 2: endereço e contato do responsável principal ─────────────────────

// RecordPrimaryAddress aceita etapas 1 e 2. Declara (ou retira) o segundo responsável.
func (uc *UseCase) RecordPrimaryAddress(ctx context.Context, enrollmentID string, in dto.PrimaryAddressRequest) (*dto.EnrollmentStatusResponse, error) {
	if !rules.ValidDates(in.BirthDate) {
		return nil, invalidDate()
	}
	upd := contactUpdate{
		Address: partialAddress(addressPatch(&in.Address)),
		Fields: rules.GuardianFields{
			Gender:                 in.Gender,
			BirthDate:              in.BirthDate,
			MaritalStatus:          in.MaritalStatus,
			Phone:                  in.Phone,
			Email:                  in.Email,
			FinancialResponsible:   in.FinancialResponsible,
			PedagogicalResponsible: in.PedagogicalResponsible,
		},
	}

	var out *entity.Enrollment
	err := uc.run(ctx, rules.LabelPrimaryAddress, func(st Stores) error {
		e, err := loadOpen(ctx, st, enrollmentID)
		if err != nil {
			return err
		}
		if e.Stage > rules.StagePrimaryAddress {
			return domain.Precondition("endereço do responsável principal só pode ser alterado até a etapa 2 (etapa atual %d)", e.Stage)
		}
		before := *e

		g, err := uc.loadGuardian(ctx, st, e.PrimaryGuardianID)
		if err != nil {
			return err
		}
		if err := uc.applyContact(ctx, st, e, g, upd); err != nil {
			return err
		}

		e.Stage = rules.Advance(e.Stage, rules.StagePrimaryAddress)
		switch {
		case in.HasSecondGuardian && !e.HasSecondGuardian:
			e.HasSecondGuardian = true
			e.PendingSecondGuardianData = true
			e.PendingSecondGuardianAddress = true
		case !in.HasSecondGuardian && e.HasSecondGuardian:
			if e.SecondGuardianID != "" {
				if err := uc.pruneLinks(ctx, st, e.StudentID, e.PrimaryGuardianID); err != nil {
					return err
				}
			}
			e.HasSecondGuardian = false
			e.PendingSecondGuardianData = false
			e.PendingSecondGuardianAddress = false
			e.SecondGuardianID = ""
			e.SecondContact = nil
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
	return ToStatus(out), nil
}

// ── Etapa 1b: identificação do segundo responsável ───────────────────────────

// RecordSecondGuardian resolve o segundo responsável por documento. Um responsável existente é
// apenas vinculado (seus dados compartilhados não são tocados); um novo nasce com endereço provisório.
// Ao final o aluno fica vinculado só ao principal e a este segundo responsável.
func (uc *UseCase) RecordSecondGuardian(ctx context.Context, enrollmentID string, in dto.SecondGuardianRequest) (*dto.EnrollmentStatusResponse, error) {
	if !rules.ValidDates(in.BirthDate) {
		return nil, invalidDate()
	}
	kinship := entity.KinshipOther
	if in.Kinship != "" {
		kinship = entity.Kinship(in.Kinship)
		if !kinship.Valid() || kinship == entity.KinshipPrincipal {
			return nil, fmt.Errorf("%w: parentesco %q inválido", domain.ErrInvalidInput, in.Kinship)
		}
	}
	fields := rules.GuardianFields{
		Name:                   &in.Name,
		CPF:                    &in.CPF,
		RG:                     &in.RG,
		Gender:                 in.Gender,
		BirthDate:              in.BirthDate,
		MaritalStatus:          in.MaritalStatus,
		LegalEntity:            in.LegalEntity,
		FinancialResponsible:   in.FinancialResponsible,
		PedagogicalResponsible: in.PedagogicalResponsible,
	}

	var out *entity.Enrollment
	err := uc.run(ctx, rules.LabelSecondGuardian, func(st Stores) error {
		e, err := loadOpen(ctx, st, enrollmentID)
		if err != nil {
			return err
		}
		if !e.HasSecondGuardian {
			return domain.Precondition("a pré-matrícula não declarou segundo responsável")
		}
		if e.Stage < rules.StageStarted {
			return domain.Precondition("pré-matrícula ainda não iniciada")
		}
		before := *e

		res, err := uc.resolver.Resolve(ctx, st, fields, false)
		if err != nil {
			return err
		}
		g := res.Guardian
		if g.ID == e.PrimaryGuardianID {
			return domain.Conflict("cpf", "o segundo responsável não pode ser o responsável principal")
		}

		if err := uc.ensureLink(ctx, st, e.StudentID, g.ID, linkSpec{
			Kinship:     kinship,
			Financial:   in.FinancialResponsible,
			Pedagogical: in.PedagogicalResponsible,
			Overwrite:   true,
		}); err != nil {
			return err
		}
		if err := uc.pruneLinks(ctx, st, e.StudentID, e.PrimaryGuardianID, g.ID); err != nil {
			return err
		}

		if e.SecondGuardianID != g.ID {
			e.SecondGuardianID = g.ID
			e.SecondContact = nil
			e.PendingSecondGuardianAddress = true
		}
		e.PendingSecondGuardianData = false

		if err := uc.saveIfChanged(ctx, st, before, e); err != nil {
			return err
		}
		uc.log.Info().
			Str("enrollment_id", e.ID).
			Str("guardian_id", g.ID).
			Bool("created", res.Created).
			Msg("segundo responsável vinculado")
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToStatus(out), nil
}

// ── Etapa 2b: endereço e contato do segundo responsável ──────────────────────

// RecordSecondGuardianAddress exige a etapa 1b resolvida. CopyFromPrimary copia o endereço
// (efetivo nesta matrícula) do responsável principal, que precisa já ter sido informado.
func (uc *UseCase) RecordSecondGuardianAddress(ctx context.Context, enrollmentID string, in dto.SecondGuardianAddressRequest) (*dto.EnrollmentStatusResponse, error) {
	var out *entity.Enrollment
	completedNow := false
	err := uc.run(ctx, rules.LabelSecondAddress, func(st Stores) error {
		e, err := loadOpen(ctx, st, enrollmentID)
		if err != nil {
			return err
		}
		if !e.HasSecondGuardian || e.SecondGuardianID == "" {
			return domain.Precondition("dados do segundo responsável (etapa 1b) ainda não informados")
		}
		before := *e

		g, err := uc.loadGuardian(ctx, st, e.SecondGuardianID)
		if err != nil {
			return err
		}

		var addrIn addressInput
		switch {
		case in.CopyFromPrimary:
			p, err := uc.loadGuardian(ctx, st, e.PrimaryGuardianID)
			if err != nil {
				return err
			}
			pAddr, err := st.Addresses.GetByID(ctx, p.AddressID)
			if err != nil {
				return fmt.Errorf("carregar endereço do responsável principal: %w", err)
			}
			eff := rules.EffectiveContact(p, pAddr, e.PrimaryContact)
			if !rules.HasRealAddress(&eff.Address) {
				return domain.Precondition("o responsável principal ainda não tem endereço informado")
			}
			addrIn = copiedAddress(eff.Address)
		case in.Address != nil:
			addrIn = partialAddress(addressPatch(in.Address))
		default:
			cur, err := st.Addresses.GetByID(ctx, g.AddressID)
			if err != nil {
				return fmt.Errorf("carregar endereço do responsável: %w", err)
			}
			eff := rules.EffectiveContact(g, cur, e.SecondContact)
			if !rules.HasRealAddress(&eff.Address) {
				return fmt.Errorf("%w: informe o endereço ou copie o do responsável principal", domain.ErrInvalidInput)
			}
		}

		upd := contactUpdate{
			Address: addrIn,
			Fields:  rules.GuardianFields{Phone: in.Phone, Email: in.Email},
		}
		if err := uc.applyContact(ctx, st, e, g, upd); err != nil {
			return err
		}
		e.PendingSecondGuardianAddress = false
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
