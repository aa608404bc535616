package entity

import "time"

// Kinship grau de parentesco entre responsável e aluno (vocabulário fechado).
type Kinship string

const (
	KinshipPrincipal     Kinship = "principal" // responsável que iniciou a pré-matrícula
	KinshipFather        Kinship = "pai"
	KinshipMother        Kinship = "mae"
	KinshipLegalGuardian Kinship = "responsavel_legal"
	KinshipOther         Kinship = "outro"
)

// Valid indica se o valor pertence ao vocabulário.
func (k Kinship) Valid() bool {
	switch k {
	case KinshipPrincipal, KinshipFather, KinshipMother, KinshipLegalGuardian, KinshipOther:
		return true
	}
	return false
}

// GuardianStudentLink vínculo N:N entre responsável e aluno. Único por (StudentID, GuardianID).
type GuardianStudentLink struct {
	ID                     string
	StudentID              string
	GuardianID             string
	Kinship                Kinship
	FinancialResponsible   bool
	PedagogicalResponsible bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}
