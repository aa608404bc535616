package enrollment

import (
	"strings"
	"unicode"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
)

// GuardianFields dados do responsável como chegam do chamador. nil = não informado.
// BirthDate vem como texto e é comparada pelo dia de calendário.
type GuardianFields struct {
	Name                   *string
	Gender                 *string
	BirthDate              *string
	MaritalStatus          *string
	RG                     *string
	CPF                    *string
	LegalEntity            *bool
	Phone                  *string
	Email                  *string
	FinancialResponsible   *bool
	PedagogicalResponsible *bool
}

// StudentFields dados do aluno como chegam do chamador.
type StudentFields struct {
	Name          *string
	Gender        *string
	BirthDate     *string
	Birthplace    *string
	Nationality   *string
	CPF           *string
	MaritalStatus *string
	Phone         *string
	Email         *string
}

// NormalizeDocument mantém só letras e dígitos, em maiúsculas (CPF, CNPJ, RG).
func NormalizeDocument(v string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsDigit(r):
			return r
		case unicode.IsLetter(r):
			return unicode.ToUpper(r)
		}
		return -1
	}, v)
}

// NormalizeEmail remove espaços e passa para minúsculas.
func NormalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

type normalizer func(string) string

func trimOnly(v string) string { return strings.TrimSpace(v) }

func upperTrim(v string) string { return strings.ToUpper(strings.TrimSpace(v)) }

// diffString devolve o novo valor só quando é dado real e difere do atual.
func diffString(current string, in *string, norm normalizer) *string {
	if in == nil {
		return nil
	}
	v := norm(*in)
	if IsPlaceholder(v) {
		return nil
	}
	if norm(current) == v {
		return nil
	}
	return &v
}

func diffBool(current bool, in *bool) *bool {
	if in == nil || *in == current {
		return nil
	}
	v := *in
	return &v
}

// DiffAddress campos de endereço que de fato mudaram.
func DiffAddress(current *entity.Address, in entity.AddressPatch) entity.AddressPatch {
	if current == nil {
		current = &entity.Address{}
	}
	return entity.AddressPatch{
		PostalCode:   diffString(current.PostalCode, in.PostalCode, trimOnly),
		Street:       diffString(current.Street, in.Street, trimOnly),
		Number:       diffString(current.Number, in.Number, trimOnly),
		Complement:   diffString(current.Complement, in.Complement, trimOnly),
		Neighborhood: diffString(current.Neighborhood, in.Neighborhood, trimOnly),
		City:         diffString(current.City, in.City, trimOnly),
		State:        diffString(current.State, in.State, upperTrim),
	}
}

// CopyAddress campos em que current difere de src, inclusive os vazios em src: o resultado
// aplicado deixa current igual a src. Endereços iguais dão patch vazio.
func CopyAddress(current *entity.Address, src entity.Address) entity.AddressPatch {
	if current == nil {
		current = &entity.Address{}
	}
	return entity.AddressPatch{
		PostalCode:   copyString(current.PostalCode, src.PostalCode, trimOnly),
		Street:       copyString(current.Street, src.Street, trimOnly),
		Number:       copyString(current.Number, src.Number, trimOnly),
		Complement:   copyString(current.Complement, src.Complement, trimOnly),
		Neighborhood: copyString(current.Neighborhood, src.Neighborhood, trimOnly),
		City:         copyString(current.City, src.City, trimOnly),
		State:        copyString(current.State, src.State, upperTrim),
	}
}

func copyString(current, src string, norm normalizer) *string {
	v := norm(src)
	if norm(current) == v {
		return nil
	}
	return &v
}

// DiffGuardian campos do responsável que de fato mudaram. Datas inválidas são ignoradas;
// quem chama valida o formato antes.
func DiffGuardian(current *entity.Guardian, in GuardianFields) entity.GuardianPatch {
	p := entity.GuardianPatch{
		Name:                   diffString(current.Name, in.Name, trimOnly),
		Gender:                 diffString(current.Gender, in.Gender, trimOnly),
		MaritalStatus:          diffString(current.MaritalStatus, in.MaritalStatus, trimOnly),
		RG:                     diffString(current.RG, in.RG, NormalizeDocument),
		CPF:                    diffString(current.CPF, in.CPF, NormalizeDocument),
		LegalEntity:            diffBool(current.LegalEntity, in.LegalEntity),
		Phone:                  diffString(current.Phone, in.Phone, trimOnly),
		Email:                  diffString(current.Email, in.Email, NormalizeEmail),
		FinancialResponsible:   diffBool(current.FinancialResponsible, in.FinancialResponsible),
		PedagogicalResponsible: diffBool(current.PedagogicalResponsible, in.PedagogicalResponsible),
	}
	if in.BirthDate != nil && !SameDate(current.BirthDate, *in.BirthDate) {
		if t, ok := ParseDate(*in.BirthDate); ok {
			p.BirthDate = &t
		}
	}
	return p
}

// DiffStudent campos do aluno que de fato mudaram.
func DiffStudent(current *entity.Student, in StudentFields) entity.StudentPatch {
	p := entity.StudentPatch{
		Name:          diffString(current.Name, in.Name, trimOnly),
		Gender:        diffString(current.Gender, in.Gender, trimOnly),
		Birthplace:    diffString(current.Birthplace, in.Birthplace, trimOnly),
		Nationality:   diffString(current.Nationality, in.Nationality, trimOnly),
		CPF:           diffString(current.CPF, in.CPF, NormalizeDocument),
		MaritalStatus: diffString(current.MaritalStatus, in.MaritalStatus, trimOnly),
		Phone:         diffString(current.Phone, in.Phone, trimOnly),
		Email:         diffString(current.Email, in.Email, NormalizeEmail),
	}
	if in.BirthDate != nil && !SameDate(current.BirthDate, *in.BirthDate) {
		if t, ok := ParseDate(*in.BirthDate); ok {
			p.BirthDate = &t
		}
	}
	return p
}

// ValidDates indica se todas as datas informadas são interpretáveis.
func ValidDates(raws ...*string) bool {
	for _, r := range raws {
		if r == nil || strings.TrimSpace(*r) == "" {
			continue
		}
		if _, ok := ParseDate(*r); !ok {
			return false
		}
	}
	return true
}
