package entity

import "time"

// Guardian responsável (pessoa física ou jurídica) por um ou mais alunos.
// CPF, RG e e-mail são únicos entre todos os responsáveis.
type Guardian struct {
	ID                     string
	Name                   string
	Gender                 string
	BirthDate              *time.Time
	MaritalStatus          string
	RG                     string
	CPF                    string // CPF ou CNPJ quando LegalEntity
	LegalEntity            bool
	Phone                  string
	Email                  string
	FinancialResponsible   bool
	PedagogicalResponsible bool
	AddressID              string
	Active                 bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// GuardianPatch atualização parcial do responsável.
type GuardianPatch struct {
	Name                   *string
	Gender                 *string
	BirthDate              *time.Time
	MaritalStatus          *string
	RG                     *string
	CPF                    *string
	LegalEntity            *bool
	Phone                  *string
	Email                  *string
	FinancialResponsible   *bool
	PedagogicalResponsible *bool
}

// IsEmpty indica que nenhum campo foi informado.
func (p GuardianPatch) IsEmpty() bool {
	return p == GuardianPatch{}
}

// Apply copia os campos informados para o responsável.
func (p GuardianPatch) Apply(g *Guardian) {
	setString(&g.Name, p.Name)
	setString(&g.Gender, p.Gender)
	if p.BirthDate != nil {
		d := *p.BirthDate
		g.BirthDate = &d
	}
	setString(&g.MaritalStatus, p.MaritalStatus)
	setString(&g.RG, p.RG)
	setString(&g.CPF, p.CPF)
	if p.LegalEntity != nil {
		g.LegalEntity = *p.LegalEntity
	}
	setString(&g.Phone, p.Phone)
	setString(&g.Email, p.Email)
	if p.FinancialResponsible != nil {
		g.FinancialResponsible = *p.FinancialResponsible
	}
	if p.PedagogicalResponsible != nil {
		g.PedagogicalResponsible = *p.PedagogicalResponsible
	}
}

// OnlyContact devolve só os campos compartilhados (telefone, e-mail) do patch.
func (p GuardianPatch) OnlyContact() GuardianPatch {
	return GuardianPatch{Phone: p.Phone, Email: p.Email}
}

// WithoutContact devolve o patch sem os campos compartilhados.
func (p GuardianPatch) WithoutContact() GuardianPatch {
	p.Phone = nil
	p.Email = nil
	return p
}
