package enrollment

import (
	"strings"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
)

// Sentinelas gravadas enquanto o dado ainda não foi informado.
const (
	PlaceholderText       = "A INFORMAR"
	PlaceholderPostalCode = "00000-000"
	PlaceholderState      = "XX"
)

// IsPlaceholder indica valor vazio ou sentinela (nunca tratado como dado real).
func IsPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	switch strings.ToUpper(v) {
	case "", "--", PlaceholderText, PlaceholderPostalCode, "00000000", PlaceholderState:
		return true
	}
	return false
}

// PlaceholderAddress endereço provisório criado com um responsável novo.
func PlaceholderAddress() *entity.Address {
	return &entity.Address{
		PostalCode:   PlaceholderPostalCode,
		Street:       PlaceholderText,
		Number:       PlaceholderText,
		Neighborhood: PlaceholderText,
		City:         PlaceholderText,
		State:        PlaceholderState,
	}
}

// HasRealAddress indica se o endereço já foi informado de fato.
func HasRealAddress(a *entity.Address) bool {
	if a == nil {
		return false
	}
	return !IsPlaceholder(a.PostalCode) && !IsPlaceholder(a.Street) && !IsPlaceholder(a.City)
}
