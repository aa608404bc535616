package enrollment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	rules "github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/enrollment"
)

// GuardianResolver localiza responsáveis por documento, cria os que faltam e decide se os
// campos compartilhados (endereço, telefone, e-mail) podem ser alterados no lugar.
type GuardianResolver struct {
	now func() time.Time
}

// Resolution responsável resolvido; Created indica que foi criado agora.
type Resolution struct {
	Guardian *entity.Guardian
	Created  bool
}

// SharingDecision resultado da regra de compartilhamento para um responsável dentro de uma matrícula.
type SharingDecision struct {
	InPlace          bool // nenhuma outra matrícula referencia o responsável
	OtherEnrollments int
}

// Resolve busca por CPF e, na falta, por RG (valores normalizados, correspondência exata).
// Um responsável existente é devolvido como está. Um novo nasce com endereço provisório e
// com os dados pessoais informados; financeiro/pedagógico começam iguais a primary.
func (r GuardianResolver) Resolve(ctx context.Context, st Stores, in rules.GuardianFields, primary bool) (Resolution, error) {
	cpf := rules.NormalizeDocument(deref(in.CPF))
	rg := rules.NormalizeDocument(deref(in.RG))
	if cpf == "" && rg == "" {
		return Resolution{}, fmt.Errorf("%w: informe CPF ou RG do responsável", domain.ErrInvalidInput)
	}

	g, err := st.Guardians.FindByDocument(ctx, cpf, rg)
	if err != nil {
		return Resolution{}, fmt.Errorf("buscar responsável por documento: %w", err)
	}
	if g != nil {
		return Resolution{Guardian: g}, nil
	}

	if email := rules.NormalizeEmail(deref(in.Email)); email != "" {
		other, err := st.Guardians.FindByEmail(ctx, email)
		if err != nil {
			return Resolution{}, fmt.Errorf("buscar responsável por e-mail: %w", err)
		}
		if other != nil {
			return Resolution{}, domain.Conflict("email", "e-mail já cadastrado para outro responsável")
		}
	}

	now := r.now()
	addr := rules.PlaceholderAddress()
	addr.ID = uuid.New().String()
	addr.CreatedAt, addr.UpdatedAt = now, now
	if err := st.Addresses.Create(ctx, addr); err != nil {
		return Resolution{}, fmt.Errorf("criar endereço provisório: %w", err)
	}

	g = &entity.Guardian{
		ID:                     uuid.New().String(),
		Name:                   rules.PlaceholderText,
		CPF:                    cpf,
		RG:                     rg,
		FinancialResponsible:   primary,
		PedagogicalResponsible: primary,
		AddressID:              addr.ID,
		Active:                 true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	rules.DiffGuardian(g, in).Apply(g)
	if err := st.Guardians.Create(ctx, g); err != nil {
		return Resolution{}, domain.AsConflict(err)
	}
	return Resolution{Guardian: g, Created: true}, nil
}

// Sharing aplica a regra de compartilhamento: alteração no lugar só quando nenhuma outra
// matrícula usa o responsável como principal ou segundo.
func (r GuardianResolver) Sharing(ctx context.Context, st Stores, guardianID, enrollmentID string) (SharingDecision, error) {
	n, err := st.Enrollments.CountReferencingGuardian(ctx, guardianID, enrollmentID)
	if err != nil {
		return SharingDecision{}, fmt.Errorf("contar matrículas do responsável: %w", err)
	}
	return SharingDecision{InPlace: n == 0, OtherEnrollments: n}, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
