package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/repository"
)

var _ repository.EnrollmentRepository = (*EnrollmentRepo)(nil)

// EnrollmentRepo implementação de EnrollmentRepository. Os snapshots de contato ficam em JSONB.
type EnrollmentRepo struct {
	q Querier
}

func NewEnrollmentRepository(q Querier) *EnrollmentRepo {
	return &EnrollmentRepo{q: q}
}

const enrollmentColumns = `
	id, code, user_email, stage, has_second_guardian, pending_second_guardian_data,
	pending_second_guardian_address, pending_student_address, completed,
	primary_guardian_id, second_guardian_id, student_id,
	primary_guardian_name, primary_guardian_document, primary_guardian_email,
	primary_contact, second_contact, remote_student_id, integrated_at, created_at, updated_at`

func scanEnrollment(row pgx.Row) (*entity.Enrollment, error) {
	var e entity.Enrollment
	var second *string
	err := row.Scan(
		&e.ID, &e.Code, &e.UserEmail, &e.Stage, &e.HasSecondGuardian, &e.PendingSecondGuardianData,
		&e.PendingSecondGuardianAddress, &e.PendingStudentAddress, &e.Completed,
		&e.PrimaryGuardianID, &second, &e.StudentID,
		&e.PrimaryGuardianName, &e.PrimaryGuardianDocument, &e.PrimaryGuardianEmail,
		&e.PrimaryContact, &e.SecondContact, &e.RemoteStudentID, &e.IntegratedAt, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.SecondGuardianID = deref(second)
	return &e, nil
}

func (r *EnrollmentRepo) one(ctx context.Context, what, where string, args ...any) (*entity.Enrollment, error) {
	e, err := scanEnrollment(r.q.QueryRow(ctx, `SELECT `+enrollmentColumns+` FROM enrollments `+where, args...))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return e, nil
}

func (r *EnrollmentRepo) Create(ctx context.Context, e *entity.Enrollment) error {
	query := `INSERT INTO enrollments (` + enrollmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.Code, e.UserEmail, e.Stage, e.HasSecondGuardian, e.PendingSecondGuardianData,
		e.PendingSecondGuardianAddress, e.PendingStudentAddress, e.Completed,
		e.PrimaryGuardianID, nullIfEmpty(e.SecondGuardianID), e.StudentID,
		e.PrimaryGuardianName, e.PrimaryGuardianDocument, e.PrimaryGuardianEmail,
		e.PrimaryContact, e.SecondContact, e.RemoteStudentID, e.IntegratedAt, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if uv := uniqueViolation("enrollments", err); uv != nil {
			return uv
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}
	return nil
}

func (r *EnrollmentRepo) GetByID(ctx context.Context, id string) (*entity.Enrollment, error) {
	return r.one(ctx, "get enrollment", `WHERE id::text = $1`, id)
}

func (r *EnrollmentRepo) FindIncompleteByUser(ctx context.Context, userEmail string) (*entity.Enrollment, error) {
	if userEmail == "" {
		return nil, nil
	}
	return r.one(ctx, "find enrollment by user",
		`WHERE user_email = $1 AND NOT completed ORDER BY created_at DESC LIMIT 1`, userEmail)
}

func (r *EnrollmentRepo) FindIncompleteByPrimaryGuardian(ctx context.Context, guardianID string) (*entity.Enrollment, error) {
	return r.one(ctx, "find enrollment by guardian",
		`WHERE primary_guardian_id = $1 AND NOT completed ORDER BY created_at DESC LIMIT 1`, guardianID)
}

func (r *EnrollmentRepo) ListByUser(ctx context.Context, userEmail string) ([]*entity.Enrollment, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE user_email = $1 ORDER BY created_at DESC`, userEmail)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *EnrollmentRepo) CountReferencingGuardian(ctx context.Context, guardianID, excludeID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT count(*) FROM enrollments
		WHERE (primary_guardian_id = $1 OR second_guardian_id = $1) AND id::text <> $2`,
		guardianID, excludeID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count enrollments by guardian: %w", err)
	}
	return n, nil
}

func (r *EnrollmentRepo) Update(ctx context.Context, e *entity.Enrollment) error {
	query := `
		UPDATE enrollments SET user_email = $2, stage = $3, has_second_guardian = $4,
			pending_second_guardian_data = $5, pending_second_guardian_address = $6,
			pending_student_address = $7, completed = $8, primary_guardian_id = $9, second_guardian_id = $10,
			primary_guardian_name = $11, primary_guardian_document = $12, primary_guardian_email = $13,
			primary_contact = $14, second_contact = $15, remote_student_id = $16, integrated_at = $17,
			updated_at = $18
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.UserEmail, e.Stage, e.HasSecondGuardian,
		e.PendingSecondGuardianData, e.PendingSecondGuardianAddress,
		e.PendingStudentAddress, e.Completed, e.PrimaryGuardianID, nullIfEmpty(e.SecondGuardianID),
		e.PrimaryGuardianName, e.PrimaryGuardianDocument, e.PrimaryGuardianEmail,
		e.PrimaryContact, e.SecondContact, e.RemoteStudentID, e.IntegratedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return nil
}
