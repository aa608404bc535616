package postgres

import (
	"context"
	"fmt"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/repository"
)

var _ repository.AddressRepository = (*AddressRepo)(nil)

// AddressRepo implementação de AddressRepository (usável com pool ou tx).
type AddressRepo struct {
	q Querier
}

func NewAddressRepository(q Querier) *AddressRepo {
	return &AddressRepo{q: q}
}

const addressColumns = `id, postal_code, street, number, complement, neighborhood, city, state, created_at, updated_at`

func (r *AddressRepo) Create(ctx context.Context, a *entity.Address) error {
	query := `INSERT INTO addresses (` + addressColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.PostalCode, a.Street, a.Number, a.Complement, a.Neighborhood, a.City, a.State,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}

func (r *AddressRepo) GetByID(ctx context.Context, id string) (*entity.Address, error) {
	if id == "" {
		return nil, nil
	}
	var a entity.Address
	err := r.q.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id).Scan(
		&a.ID, &a.PostalCode, &a.Street, &a.Number, &a.Complement, &a.Neighborhood, &a.City, &a.State,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get address: %w", err)
	}
	return &a, nil
}

func (r *AddressRepo) Update(ctx context.Context, a *entity.Address) error {
	query := `
		UPDATE addresses SET postal_code = $2, street = $3, number = $4, complement = $5,
			neighborhood = $6, city = $7, state = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.PostalCode, a.Street, a.Number, a.Complement, a.Neighborhood, a.City, a.State, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	return nil
}
