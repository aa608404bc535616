package entity

import "time"

// Address endereço postal. Pertence a um único Guardian (ou fica embutido no Student).
type Address struct {
	ID           string
	PostalCode   string // CEP
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string // UF, duas letras
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AddressPatch atualização parcial de endereço: nil = campo não informado.
type AddressPatch struct {
	PostalCode   *string
	Street       *string
	Number       *string
	Complement   *string
	Neighborhood *string
	City         *string
	State        *string
}

// IsEmpty indica que nenhum campo foi informado.
func (p AddressPatch) IsEmpty() bool {
	return p.PostalCode == nil && p.Street == nil && p.Number == nil && p.Complement == nil &&
		p.Neighborhood == nil && p.City == nil && p.State == nil
}

// Apply copia os campos informados para o endereço.
func (p AddressPatch) Apply(a *Address) {
	setString(&a.PostalCode, p.PostalCode)
	setString(&a.Street, p.Street)
	setString(&a.Number, p.Number)
	setString(&a.Complement, p.Complement)
	setString(&a.Neighborhood, p.Neighborhood)
	setString(&a.City, p.City)
	setString(&a.State, p.State)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
