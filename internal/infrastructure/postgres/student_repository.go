package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/repository"
)

var _ repository.StudentRepository = (*StudentRepo)(nil)

// StudentRepo implementação de StudentRepository (usável com pool ou tx).
type StudentRepo struct {
	q Querier
}

func NewStudentRepository(q Querier) *StudentRepo {
	return &StudentRepo{q: q}
}

const studentColumns = `
	id, enrollment_id, name, gender, birth_date, birthplace, nationality, cpf, marital_status, phone, email,
	address_id, lives_with_guardian, lives_with_guardian_name, created_at, updated_at`

func scanStudent(row pgx.Row) (*entity.Student, error) {
	var s entity.Student
	var cpf, addressID *string
	err := row.Scan(
		&s.ID, &s.EnrollmentID, &s.Name, &s.Gender, &s.BirthDate, &s.Birthplace, &s.Nationality, &cpf,
		&s.MaritalStatus, &s.Phone, &s.Email, &addressID, &s.LivesWithGuardian, &s.LivesWithGuardianName,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.CPF, s.AddressID = deref(cpf), deref(addressID)
	return &s, nil
}

func (r *StudentRepo) Create(ctx context.Context, s *entity.Student) error {
	query := `INSERT INTO students (` + studentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.EnrollmentID, s.Name, s.Gender, s.BirthDate, s.Birthplace, s.Nationality, nullIfEmpty(s.CPF),
		s.MaritalStatus, s.Phone, s.Email, nullIfEmpty(s.AddressID), s.LivesWithGuardian, s.LivesWithGuardianName,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if uv := uniqueViolation("students", err); uv != nil {
			return uv
		}
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

func (r *StudentRepo) GetByID(ctx context.Context, id string) (*entity.Student, error) {
	s, err := scanStudent(r.q.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id::text = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	return s, nil
}

func (r *StudentRepo) FindByCPF(ctx context.Context, cpf string) (*entity.Student, error) {
	if cpf == "" {
		return nil, nil
	}
	s, err := scanStudent(r.q.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE cpf = $1`, cpf))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find student by cpf: %w", err)
	}
	return s, nil
}

func (r *StudentRepo) Update(ctx context.Context, s *entity.Student) error {
	query := `
		UPDATE students SET name = $2, gender = $3, birth_date = $4, birthplace = $5, nationality = $6,
			cpf = $7, marital_status = $8, phone = $9, email = $10, address_id = $11,
			lives_with_guardian = $12, lives_with_guardian_name = $13, updated_at = $14
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Name, s.Gender, s.BirthDate, s.Birthplace, s.Nationality, nullIfEmpty(s.CPF), s.MaritalStatus,
		s.Phone, s.Email, nullIfEmpty(s.AddressID), s.LivesWithGuardian, s.LivesWithGuardianName, s.UpdatedAt,
	)
	if err != nil {
		if uv := uniqueViolation("students", err); uv != nil {
			return uv
		}
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}
