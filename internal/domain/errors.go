package domain

import (
	"errors"
	"fmt"
)

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound          = errors.New("recurso não encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("não autorizado")
	ErrForbidden         = errors.New("acesso negado")
	ErrConflict          = errors.New("conflito com o estado atual")
	ErrPrecondition      = errors.New("pré-condição não atendida")
	ErrIntegrationConfig = errors.New("integração: credenciais do sistema escolar não configuradas")
	ErrTransport         = errors.New("integração: falha de transporte")
)

// PreconditionError etapa fora de ordem, matrícula já concluída ou subetapa pendente.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return e.Reason }

// Unwrap permite errors.Is(err, ErrPrecondition).
func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

// Precondition atalho para construir PreconditionError.
func Precondition(format string, args ...any) error {
	return &PreconditionError{Reason: fmt.Sprintf(format, args...)}
}

// ConflictError documento ou e-mail já usado por outra pessoa/matrícula.
type ConflictError struct {
	Field  string
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s (%s)", e.Reason, e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Conflict atalho para construir ConflictError.
func Conflict(field, reason string) error {
	return &ConflictError{Field: field, Reason: reason}
}

// UniqueViolationError violação de constraint única reportada pela camada de persistência.
// Field é o nome da coluna afetada (cpf, rg, email, student_guardian...).
type UniqueViolationError struct {
	Entity string
	Field  string
	Err    error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s: valor duplicado em %s", e.Entity, e.Field)
}

func (e *UniqueViolationError) Unwrap() error { return ErrDuplicate }

// AsConflict converte uma violação de unicidade em ConflictError; outros erros passam intactos.
func AsConflict(err error) error {
	var uv *UniqueViolationError
	if errors.As(err, &uv) {
		return Conflict(uv.Field, "já cadastrado para outra pessoa ou matrícula")
	}
	return err
}

// TransportError falha de rede/HTTP ao falar com o sistema escolar, distinta de uma rejeição remota.
type TransportError struct {
	Operation  string
	StatusCode int // 0 quando a requisição nem chegou a ter resposta
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("integração %s: HTTP %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("integração %s: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}
