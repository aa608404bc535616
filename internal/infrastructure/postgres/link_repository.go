package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/repository"
)

var _ repository.LinkRepository = (*LinkRepo)(nil)

// LinkRepo vínculos responsável↔aluno.
type LinkRepo struct {
	q Querier
}

func NewLinkRepository(q Querier) *LinkRepo {
	return &LinkRepo{q: q}
}

const linkColumns = `id, student_id, guardian_id, kinship, financial_responsible, pedagogical_responsible, created_at, updated_at`

func scanLink(row pgx.Row) (*entity.GuardianStudentLink, error) {
	var l entity.GuardianStudentLink
	var kinship string
	if err := row.Scan(&l.ID, &l.StudentID, &l.GuardianID, &kinship,
		&l.FinancialResponsible, &l.PedagogicalResponsible, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Kinship = entity.Kinship(kinship)
	return &l, nil
}

func (r *LinkRepo) Create(ctx context.Context, l *entity.GuardianStudentLink) error {
	_, err := r.q.Exec(ctx, `INSERT INTO guardian_student_links (`+linkColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		l.ID, l.StudentID, l.GuardianID, string(l.Kinship), l.FinancialResponsible, l.PedagogicalResponsible,
		l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if uv := uniqueViolation("guardian_student_links", err); uv != nil {
			return uv
		}
		return fmt.Errorf("insert link: %w", err)
	}
	return nil
}

func (r *LinkRepo) Get(ctx context.Context, studentID, guardianID string) (*entity.GuardianStudentLink, error) {
	l, err := scanLink(r.q.QueryRow(ctx,
		`SELECT `+linkColumns+` FROM guardian_student_links WHERE student_id = $1 AND guardian_id = $2`,
		studentID, guardianID))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get link: %w", err)
	}
	return l, nil
}

func (r *LinkRepo) ListByStudent(ctx context.Context, studentID string) ([]*entity.GuardianStudentLink, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+linkColumns+` FROM guardian_student_links WHERE student_id = $1 ORDER BY created_at, id`, studentID)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()
	var list []*entity.GuardianStudentLink
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LinkRepo) Update(ctx context.Context, l *entity.GuardianStudentLink) error {
	_, err := r.q.Exec(ctx, `
		UPDATE guardian_student_links SET kinship = $2, financial_responsible = $3,
			pedagogical_responsible = $4, updated_at = $5
		WHERE id = $1`,
		l.ID, string(l.Kinship), l.FinancialResponsible, l.PedagogicalResponsible, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update link: %w", err)
	}
	return nil
}

func (r *LinkRepo) DeleteExcept(ctx context.Context, studentID string, keep []string) (int, error) {
	if keep == nil {
		keep = []string{}
	}
	tag, err := r.q.Exec(ctx, `
		DELETE FROM guardian_student_links
		WHERE student_id = $1 AND NOT (guardian_id::text = ANY($2::text[]))`,
		studentID, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("delete links: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
