package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/enrollment"
)

var _ enrollment.TxRunner = (*TxRunner)(nil)

// TxRunner executa callbacks dentro de uma transação PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunEnrollment inicia a transação, entrega a fn os repositórios atados a ela e faz Commit ou Rollback.
func (r *TxRunner) RunEnrollment(ctx context.Context, fn func(st enrollment.Stores) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	st := enrollment.Stores{
		Enrollments: NewEnrollmentRepository(tx),
		Guardians:   NewGuardianRepository(tx),
		Students:    NewStudentRepository(tx),
		Addresses:   NewAddressRepository(tx),
		Links:       NewLinkRepository(tx),
	}
	if err := fn(st); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
