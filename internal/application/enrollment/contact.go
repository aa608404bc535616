package enrollment

import (
	"context"
	"fmt"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	rules "github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/enrollment"
)

// addressInput endereço a gravar: patch parcial (campos vazios e provisórios ignorados) ou
// cópia integral de outro endereço.
type addressInput struct {
	patch  entity.AddressPatch
	copyOf *entity.Address
}

func partialAddress(p entity.AddressPatch) addressInput { return addressInput{patch: p} }

func copiedAddress(a entity.Address) addressInput { return addressInput{copyOf: &a} }

func (in addressInput) diff(current *entity.Address) entity.AddressPatch {
	if in.copyOf != nil {
		return rules.CopyAddress(current, *in.copyOf)
	}
	return rules.DiffAddress(current, in.patch)
}

// contactUpdate endereço e dados do responsável a aplicar dentro de uma matrícula.
// Fields.Phone e Fields.Email são compartilhados; o restante é pessoal.
type contactUpdate struct {
	Address addressInput
	Fields  rules.GuardianFields
}

// applyContact aplica o diff de endereço/contato de g no contexto de e.
//
// Dados pessoais vão sempre para o registro do responsável. Endereço, telefone e e-mail só
// são alterados no lugar quando nenhuma outra matrícula referencia g; caso contrário a mudança
// fica no snapshot local da matrícula. Uma vez com snapshot, a matrícula continua usando-o.
// Sem mudança real, nenhuma escrita acontece.
func (uc *UseCase) applyContact(ctx context.Context, st Stores, e *entity.Enrollment, g *entity.Guardian, upd contactUpdate) error {
	addr, err := st.Addresses.GetByID(ctx, g.AddressID)
	if err != nil {
		return fmt.Errorf("carregar endereço do responsável: %w", err)
	}

	full := rules.DiffGuardian(g, upd.Fields)
	personal := full.WithoutContact()

	snap := e.ContactFor(g.ID)
	local := snap != nil
	if !local {
		decision, err := uc.resolver.Sharing(ctx, st, g.ID, e.ID)
		if err != nil {
			return err
		}
		local = !decision.InPlace
		if local {
			uc.log.Info().
				Str("enrollment_id", e.ID).
				Str("guardian_id", g.ID).
				Int("other_enrollments", decision.OtherEnrollments).
				Msg("responsável compartilhado: contato gravado só na matrícula")
		}
	}

	if local {
		if err := uc.applySnapshot(e, g, addr, snap, upd); err != nil {
			return err
		}
		return uc.updateGuardian(ctx, st, g, personal)
	}

	contact := full.OnlyContact()
	if contact.Email != nil {
		other, err := st.Guardians.FindByEmail(ctx, *contact.Email)
		if err != nil {
			return fmt.Errorf("buscar responsável por e-mail: %w", err)
		}
		if other != nil && other.ID != g.ID {
			return domain.Conflict("email", "e-mail já cadastrado para outro responsável")
		}
	}
	if err := uc.updateAddress(ctx, st, g, addr, upd.Address); err != nil {
		return err
	}
	personal.Phone, personal.Email = contact.Phone, contact.Email
	return uc.updateGuardian(ctx, st, g, personal)
}

// applySnapshot grava a mudança no snapshot local (substituindo o ponteiro).
func (uc *UseCase) applySnapshot(e *entity.Enrollment, g *entity.Guardian, addr *entity.Address, snap *entity.ContactSnapshot, upd contactUpdate) error {
	cur := rules.EffectiveContact(g, addr, snap)
	addrPatch := upd.Address.diff(&cur.Address)
	contact := rules.DiffGuardian(&entity.Guardian{Phone: cur.Phone, Email: cur.Email}, rules.GuardianFields{
		Phone: upd.Fields.Phone,
		Email: upd.Fields.Email,
	}).OnlyContact()
	if addrPatch.IsEmpty() && contact.IsEmpty() {
		return nil
	}
	next := cur
	addrPatch.Apply(&next.Address)
	if contact.Phone != nil {
		next.Phone = *contact.Phone
	}
	if contact.Email != nil {
		next.Email = *contact.Email
	}
	switch g.ID {
	case e.PrimaryGuardianID:
		e.PrimaryContact = &next
	case e.SecondGuardianID:
		e.SecondContact = &next
	default:
		return fmt.Errorf("responsável %s não pertence à pré-matrícula %s", g.ID, e.ID)
	}
	return nil
}

// updateAddress aplica o diff no endereço do responsável (cria a linha se ele não tiver uma).
func (uc *UseCase) updateAddress(ctx context.Context, st Stores, g *entity.Guardian, addr *entity.Address, in addressInput) error {
	if addr == nil {
		patch := in.diff(rules.PlaceholderAddress())
		if patch.IsEmpty() {
			return nil
		}
		a := rules.PlaceholderAddress()
		patch.Apply(a)
		now := uc.now()
		a.ID, a.CreatedAt, a.UpdatedAt = newID(), now, now
		if err := st.Addresses.Create(ctx, a); err != nil {
			return fmt.Errorf("criar endereço: %w", err)
		}
		g.AddressID = a.ID
		g.UpdatedAt = now
		if err := st.Guardians.Update(ctx, g); err != nil {
			return fmt.Errorf("atualizar responsável: %w", domain.AsConflict(err))
		}
		return nil
	}
	patch := in.diff(addr)
	if patch.IsEmpty() {
		return nil
	}
	patch.Apply(addr)
	addr.UpdatedAt = uc.now()
	if err := st.Addresses.Update(ctx, addr); err != nil {
		return fmt.Errorf("atualizar endereço: %w", err)
	}
	return nil
}

func (uc *UseCase) updateGuardian(ctx context.Context, st Stores, g *entity.Guardian, p entity.GuardianPatch) error {
	if p.IsEmpty() {
		return nil
	}
	p.Apply(g)
	g.UpdatedAt = uc.now()
	if err := st.Guardians.Update(ctx, g); err != nil {
		return fmt.Errorf("atualizar responsável: %w", domain.AsConflict(err))
	}
	return nil
}
