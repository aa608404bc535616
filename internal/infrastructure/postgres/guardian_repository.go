package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/repository"
)

var _ repository.GuardianRepository = (*GuardianRepo)(nil)

// GuardianRepo implementação de GuardianRepository (usável com pool ou tx).
type GuardianRepo struct {
	q Querier
}

func NewGuardianRepository(q Querier) *GuardianRepo {
	return &GuardianRepo{q: q}
}

const guardianColumns = `
	id, name, gender, birth_date, marital_status, rg, cpf, legal_entity, phone, email,
	financial_responsible, pedagogical_responsible, address_id, active, created_at, updated_at`

func scanGuardian(row pgx.Row) (*entity.Guardian, error) {
	var g entity.Guardian
	var rg, cpf, email, addressID *string
	err := row.Scan(
		&g.ID, &g.Name, &g.Gender, &g.BirthDate, &g.MaritalStatus, &rg, &cpf, &g.LegalEntity, &g.Phone, &email,
		&g.FinancialResponsible, &g.PedagogicalResponsible, &addressID, &g.Active, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	g.RG, g.CPF, g.Email, g.AddressID = deref(rg), deref(cpf), deref(email), deref(addressID)
	return &g, nil
}

func (r *GuardianRepo) Create(ctx context.Context, g *entity.Guardian) error {
	query := `INSERT INTO guardians (` + guardianColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		g.ID, g.Name, g.Gender, g.BirthDate, g.MaritalStatus, nullIfEmpty(g.RG), nullIfEmpty(g.CPF),
		g.LegalEntity, g.Phone, nullIfEmpty(g.Email), g.FinancialResponsible, g.PedagogicalResponsible,
		nullIfEmpty(g.AddressID), g.Active, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		if uv := uniqueViolation("guardians", err); uv != nil {
			return uv
		}
		return fmt.Errorf("insert guardian: %w", err)
	}
	return nil
}

func (r *GuardianRepo) GetByID(ctx context.Context, id string) (*entity.Guardian, error) {
	g, err := scanGuardian(r.q.QueryRow(ctx, `SELECT `+guardianColumns+` FROM guardians WHERE id::text = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get guardian: %w", err)
	}
	return g, nil
}

// FindByDocument CPF tem precedência sobre RG quando os dois apontam para pessoas diferentes.
func (r *GuardianRepo) FindByDocument(ctx context.Context, cpf, rg string) (*entity.Guardian, error) {
	if cpf == "" && rg == "" {
		return nil, nil
	}
	query := `SELECT ` + guardianColumns + ` FROM guardians
		WHERE ($1 <> '' AND cpf = $1) OR ($2 <> '' AND rg = $2)
		ORDER BY (cpf IS NOT DISTINCT FROM NULLIF($1, '')) DESC, created_at
		LIMIT 1`
	g, err := scanGuardian(r.q.QueryRow(ctx, query, cpf, rg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find guardian by document: %w", err)
	}
	return g, nil
}

func (r *GuardianRepo) FindByEmail(ctx context.Context, email string) (*entity.Guardian, error) {
	if email == "" {
		return nil, nil
	}
	g, err := scanGuardian(r.q.QueryRow(ctx, `SELECT `+guardianColumns+` FROM guardians WHERE email = $1`, email))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find guardian by email: %w", err)
	}
	return g, nil
}

func (r *GuardianRepo) ListByIDs(ctx context.Context, ids []string) ([]*entity.Guardian, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+guardianColumns+` FROM guardians WHERE id::text = ANY($1::text[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("list guardians: %w", err)
	}
	defer rows.Close()
	var list []*entity.Guardian
	for rows.Next() {
		g, err := scanGuardian(rows)
		if err != nil {
			return nil, fmt.Errorf("scan guardian: %w", err)
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

func (r *GuardianRepo) Update(ctx context.Context, g *entity.Guardian) error {
	query := `
		UPDATE guardians SET name = $2, gender = $3, birth_date = $4, marital_status = $5, rg = $6, cpf = $7,
			legal_entity = $8, phone = $9, email = $10, financial_responsible = $11,
			pedagogical_responsible = $12, address_id = $13, active = $14, updated_at = $15
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		g.ID, g.Name, g.Gender, g.BirthDate, g.MaritalStatus, nullIfEmpty(g.RG), nullIfEmpty(g.CPF),
		g.LegalEntity, g.Phone, nullIfEmpty(g.Email), g.FinancialResponsible, g.PedagogicalResponsible,
		nullIfEmpty(g.AddressID), g.Active, g.UpdatedAt,
	)
	if err != nil {
		if uv := uniqueViolation("guardians", err); uv != nil {
			return uv
		}
		return fmt.Errorf("update guardian: %w", err)
	}
	return nil
}
