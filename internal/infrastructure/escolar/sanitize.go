package escolar

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	rules "github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/enrollment"
)

// maxPhoneDigits limite do campo de telefone remoto (E.164).
const maxPhoneDigits = 15

// dateLayout formato de data aceito pelo web service.
const dateLayout = "02/01/2006"

// cleanText remove sentinelas e runas inválidas em XML 1.0; o escape fica com o etree.
func cleanText(v string) string {
	v = strings.TrimSpace(v)
	if rules.IsPlaceholder(v) {
		return ""
	}
	return strings.Map(func(r rune) rune {
		if validXMLRune(r) {
			return r
		}
		return -1
	}, v)
}

// validXMLRune faixa Char da especificação XML 1.0.
func validXMLRune(r rune) bool {
	switch {
	case r == utf8.RuneError:
		return false
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// cleanPhone só dígitos; acima de 15 dígitos o campo é descartado e um aviso é devolvido.
func cleanPhone(field, v string) (string, string) {
	if rules.IsPlaceholder(v) {
		return "", ""
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < utf8.RuneSelf {
			return r
		}
		return -1
	}, v)
	if len(digits) > maxPhoneDigits {
		return "", fmt.Sprintf("%s descartado: %d dígitos (máximo %d)", field, len(digits), maxPhoneDigits)
	}
	return digits, ""
}

// cleanDocument só letras e dígitos.
func cleanDocument(v string) string {
	if rules.IsPlaceholder(v) {
		return ""
	}
	return rules.NormalizeDocument(v)
}

// cityField "Cidade|UF" quando há UF.
func cityField(a entity.Address) string {
	city := cleanText(a.City)
	state := strings.ToUpper(cleanText(a.State))
	if city == "" {
		return ""
	}
	if state == "" {
		return city
	}
	return city + "|" + state
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
