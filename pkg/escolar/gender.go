package escolar

import "github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/text"

// =============================================================================
// Sexo (campo sSexo). Códigos de uma ou duas letras.
// =============================================================================

// GenderCode código remoto de sexo/gênero.
type GenderCode string

const (
	GenderUnset       GenderCode = ""
	GenderMale        GenderCode = "M"
	GenderFemale      GenderCode = "F"
	GenderTransgender GenderCode = "T"
	GenderNonBinary   GenderCode = "NB"
	GenderNeutral     GenderCode = "N"
)

var genderAliases = map[string]GenderCode{
	"m":           GenderMale,
	"masculino":   GenderMale,
	"male":        GenderMale,
	"homem":       GenderMale,
	"f":           GenderFemale,
	"feminino":    GenderFemale,
	"female":      GenderFemale,
	"mulher":      GenderFemale,
	"t":           GenderTransgender,
	"transgenero": GenderTransgender,
	"transgender": GenderTransgender,
	"nb":          GenderNonBinary,
	"nao-binario": GenderNonBinary,
	"nao binario": GenderNonBinary,
	"non-binary":  GenderNonBinary,
	"nonbinary":   GenderNonBinary,
	"n":           GenderNeutral,
	"neutro":      GenderNeutral,
	"neutral":     GenderNeutral,
}

// ParseGender mapeia o texto livre para o código remoto; desconhecido → vazio.
func ParseGender(raw string) GenderCode {
	return genderAliases[text.Fold(raw)]
}
