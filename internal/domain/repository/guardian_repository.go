package repository

import (
	"context"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
)

// GuardianRepository porta de persistência de responsáveis.
type GuardianRepository interface {
	Create(ctx context.Context, g *entity.Guardian) error
	GetByID(ctx context.Context, id string) (*entity.Guardian, error)
	// FindByDocument busca por CPF ou RG (correspondência exata, já normalizados). Valores vazios são ignorados.
	FindByDocument(ctx context.Context, cpf, rg string) (*entity.Guardian, error)
	FindByEmail(ctx context.Context, email string) (*entity.Guardian, error)
	ListByIDs(ctx context.Context, ids []string) ([]*entity.Guardian, error)
	Update(ctx context.Context, g *entity.Guardian) error
}
