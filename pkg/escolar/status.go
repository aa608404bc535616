// Package escolar contém os vocabulários fechados do sistema escolar legado: códigos de
// status das respostas, parentesco e sexo. Sem dependências de infraestrutura.
package escolar

import (
	"strconv"
	"strings"
	"unicode"
)

// =============================================================================
// Códigos de status devolvidos no texto de resultado ("<código> - <mensagem>")
// =============================================================================

// StatusCode código numérico do início do texto de resultado.
type StatusCode int

const (
	StatusUnknown               StatusCode = 0
	StatusSuccess               StatusCode = 1
	StatusInvalidCredentials    StatusCode = 2
	StatusRequiredFieldMissing  StatusCode = 3
	StatusInvalidDate           StatusCode = 4
	StatusInvalidCPF            StatusCode = 5
	StatusInvalidEmail          StatusCode = 6
	StatusInvalidPhone          StatusCode = 7
	StatusInvalidPostalCode     StatusCode = 8
	StatusInvalidGender         StatusCode = 9
	StatusStudentNotFound       StatusCode = 10
	StatusInvalidKinship        StatusCode = 11
	StatusFieldTooLong          StatusCode = 12
	StatusStudentCPFDuplicated  StatusCode = 21
	StatusStudentNameDuplicated StatusCode = 22
	StatusGuardianCPFDuplicated StatusCode = 28
	StatusCPFAlreadyAssociated  StatusCode = 29
	StatusGuardianNotFound      StatusCode = 31
	StatusInvalidCity           StatusCode = 32
	StatusRateLimited           StatusCode = 39
	StatusServiceUnavailable    StatusCode = 40
	StatusRemoteFailure         StatusCode = 99
)

// statusDescriptions tabela código → descrição.
var statusDescriptions = map[StatusCode]string{
	StatusSuccess:               "Operação realizada com sucesso",
	StatusInvalidCredentials:    "Código de cliente ou token inválido",
	StatusRequiredFieldMissing:  "Campo obrigatório não informado",
	StatusInvalidDate:           "Data inválida",
	StatusInvalidCPF:            "CPF inválido",
	StatusInvalidEmail:          "E-mail inválido",
	StatusInvalidPhone:          "Telefone inválido",
	StatusInvalidPostalCode:     "CEP inválido",
	StatusInvalidGender:         "Sexo inválido",
	StatusStudentNotFound:       "Aluno não encontrado",
	StatusInvalidKinship:        "Parentesco inválido",
	StatusFieldTooLong:          "Campo excede o tamanho máximo",
	StatusStudentCPFDuplicated:  "CPF do aluno já cadastrado",
	StatusStudentNameDuplicated: "Aluno já cadastrado com o mesmo nome e data de nascimento",
	StatusGuardianCPFDuplicated: "CPF do responsável já cadastrado",
	StatusCPFAlreadyAssociated:  "CPF já associado a outro responsável deste aluno",
	StatusGuardianNotFound:      "Responsável não encontrado",
	StatusInvalidCity:           "Cidade inválida",
	StatusRateLimited:           "Limite de requisições excedido, tente mais tarde",
	StatusServiceUnavailable:    "Serviço temporariamente indisponível",
	StatusRemoteFailure:         "Erro inesperado no sistema escolar",
}

// Description descrição do código; vazio se o código não está na tabela.
func (c StatusCode) Description() string {
	return statusDescriptions[c]
}

// Known indica se o código está na tabela.
func (c StatusCode) Known() bool {
	_, ok := statusDescriptions[c]
	return ok
}

// IsSuccess só o código 1 indica sucesso.
func (c StatusCode) IsSuccess() bool { return c == StatusSuccess }

// IsValidationFailure rejeição por dado inválido (o chamador pode corrigir e reenviar).
func (c StatusCode) IsValidationFailure() bool {
	return c >= StatusRequiredFieldMissing && c <= StatusFieldTooLong || c == StatusInvalidCity
}

// IsDuplicate rejeição por documento/cadastro já existente.
func (c StatusCode) IsDuplicate() bool {
	switch c {
	case StatusStudentCPFDuplicated, StatusStudentNameDuplicated, StatusGuardianCPFDuplicated, StatusCPFAlreadyAssociated:
		return true
	}
	return false
}

// IsRateLimited limite de requisições.
func (c StatusCode) IsRateLimited() bool { return c == StatusRateLimited }

// Status resultado decodificado de um texto de resposta.
type Status struct {
	Code    StatusCode
	Decoded bool   // false quando o texto não trouxe código nem palavra-chave de sucesso
	Message string // descrição da tabela, ou o texto remoto quando o código é desconhecido
	Raw     string // texto original, sempre preservado
}

// Success indica sucesso remoto.
func (s Status) Success() bool { return s.Decoded && s.Code.IsSuccess() }

// successKeywords palavras que, sem código numérico, indicam sucesso.
var successKeywords = []string{"sucesso", "success"}

// DecodeStatus extrai o código inicial ("29 - CPF já associado") e o traduz pela tabela.
// Sem código: texto com "sucesso" vira código 1; caso contrário o texto volta sem decodificar.
func DecodeStatus(text string) Status {
	raw := text
	trimmed := strings.TrimSpace(text)

	if code, rest, ok := leadingCode(trimmed); ok {
		st := Status{Code: StatusCode(code), Decoded: true, Raw: raw}
		if desc := st.Code.Description(); desc != "" {
			st.Message = desc
		} else {
			st.Message = rest
		}
		return st
	}

	lower := strings.ToLower(trimmed)
	for _, kw := range successKeywords {
		if strings.Contains(lower, kw) {
			return Status{Code: StatusSuccess, Decoded: true, Message: StatusSuccess.Description(), Raw: raw}
		}
	}
	return Status{Code: StatusUnknown, Decoded: false, Message: trimmed, Raw: raw}
}

// leadingCode lê os dígitos iniciais seguidos de um separador ('-', '–', ':' ou '|').
func leadingCode(s string) (int, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, "", false
	}
	rest := strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	if rest == "" {
		return n, "", true
	}
	for _, sep := range []string{"-", "–", ":", "|"} {
		if strings.HasPrefix(rest, sep) {
			return n, strings.TrimSpace(strings.TrimPrefix(rest, sep)), true
		}
	}
	return 0, "", false
}
