package repository

import (
	"context"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
)

// AddressRepository porta de persistência de endereços.
type AddressRepository interface {
	Create(ctx context.Context, a *entity.Address) error
	GetByID(ctx context.Context, id string) (*entity.Address, error)
	Update(ctx context.Context, a *entity.Address) error
}
