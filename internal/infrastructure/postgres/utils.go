package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
)

// Querier pool ou tx: os repositórios não sabem em qual dos dois estão.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueViolation converte 23505 em *domain.UniqueViolationError com a coluna tirada do nome
// da constraint ("guardians_cpf_key" → "cpf"). Outros erros voltam nil.
func uniqueViolation(table string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	field := strings.TrimSuffix(strings.TrimPrefix(pgErr.ConstraintName, table+"_"), "_key")
	if field == "" {
		field = pgErr.ConstraintName
	}
	return &domain.UniqueViolationError{Entity: table, Field: field, Err: err}
}

// nullIfEmpty "" vira NULL (colunas únicas opcionais).
func nullIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
