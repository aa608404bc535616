package enrollment

import "github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"

// EffectiveContact endereço e contato do responsável como vistos por uma matrícula: o snapshot
// local quando existe, senão o registro compartilhado. addr pode ser nil.
func EffectiveContact(g *entity.Guardian, addr *entity.Address, snap *entity.ContactSnapshot) entity.ContactSnapshot {
	if snap != nil {
		return *snap
	}
	out := entity.ContactSnapshot{Phone: g.Phone, Email: g.Email}
	if addr != nil {
		out.Address = DetachAddress(addr)
	}
	return out
}

// DetachAddress cópia por valor, sem identidade nem timestamps.
func DetachAddress(a *entity.Address) entity.Address {
	return entity.Address{
		PostalCode:   a.PostalCode,
		Street:       a.Street,
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: a.Neighborhood,
		City:         a.City,
		State:        a.State,
	}
}
