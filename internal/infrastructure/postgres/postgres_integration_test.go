//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/dto"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/enrollment"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/domain/entity"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/infrastructure/postgres"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/config"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/logger"
)

// newTestPool sobe um PostgreSQL descartável e aplica as migrações.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("prematricula_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(dsn, logger.Nop()))

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func s(v string) *string { return &v }

func address(street string) dto.AddressRequest {
	return dto.AddressRequest{
		PostalCode: s("01310-100"), Street: s(street), Number: s("1000"),
		Neighborhood: s("Bela Vista"), City: s("São Paulo"), State: s("SP"),
	}
}

func TestFluxoCompleto_Postgres(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	uc := enrollment.NewUseCase(postgres.NewTxRunner(pool), logger.Nop())

	st, err := uc.Start(ctx, "pais@example.com", dto.StartEnrollmentRequest{Name: "Maria Silva", CPF: "123.456.789-00"})
	require.NoError(t, err)

	_, err = uc.RecordPrimaryAddress(ctx, st.EnrollmentID, dto.PrimaryAddressRequest{
		Address: address("Av. Paulista"), Email: s("maria@example.com"), HasSecondGuardian: true,
	})
	require.NoError(t, err)
	_, err = uc.RecordSecondGuardian(ctx, st.EnrollmentID, dto.SecondGuardianRequest{
		Name: "João Souza", CPF: "987.654.321-00", Kinship: "pai",
	})
	require.NoError(t, err)
	_, err = uc.RecordSecondGuardianAddress(ctx, st.EnrollmentID, dto.SecondGuardianAddressRequest{CopyFromPrimary: true})
	require.NoError(t, err)
	_, err = uc.RecordStudent(ctx, st.EnrollmentID, dto.StudentRequest{Name: s("Pedro Silva"), BirthDate: s("2015-02-10")})
	require.NoError(t, err)
	out, err := uc.RecordStudentAddress(ctx, st.EnrollmentID, st.StudentID, dto.StudentAddressRequest{
		LivesWithGuardian: true, GuardianName: "Maria Silva",
	})
	require.NoError(t, err)
	assert.True(t, out.Completed)

	d, err := uc.Get(ctx, st.EnrollmentID)
	require.NoError(t, err)
	require.NotNil(t, d.SecondGuardian)
	assert.Equal(t, "pai", d.SecondGuardian.Kinship)
	require.NotNil(t, d.SecondGuardian.Address)
	assert.Equal(t, "Av. Paulista", d.SecondGuardian.Address.Street)
	assert.Equal(t, "Pedro Silva", d.Student.Name)

	list, err := uc.ListByUser(ctx, "pais@example.com")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCompartilhamento_GravaSnapshotJSONB(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	uc := enrollment.NewUseCase(postgres.NewTxRunner(pool), logger.Nop())

	first, err := uc.Start(ctx, "a@example.com", dto.StartEnrollmentRequest{Name: "Maria", CPF: "11122233344"})
	require.NoError(t, err)
	_, err = uc.RecordPrimaryAddress(ctx, first.EnrollmentID, dto.PrimaryAddressRequest{Address: address("Av. Paulista")})
	require.NoError(t, err)
	_, err = uc.RecordStudent(ctx, first.EnrollmentID, dto.StudentRequest{Name: s("Irmão 1")})
	require.NoError(t, err)
	_, err = uc.RecordStudentAddress(ctx, first.EnrollmentID, first.StudentID, dto.StudentAddressRequest{Address: ptr(address("Av. Paulista"))})
	require.NoError(t, err)

	second, err := uc.Start(ctx, "b@example.com", dto.StartEnrollmentRequest{Name: "Maria", CPF: "111.222.333-44"})
	require.NoError(t, err)
	assert.Equal(t, first.PrimaryGuardianID, second.PrimaryGuardianID)

	_, err = uc.RecordPrimaryAddress(ctx, second.EnrollmentID, dto.PrimaryAddressRequest{Address: address("Rua Augusta")})
	require.NoError(t, err)

	g, err := postgres.NewGuardianRepository(pool).GetByID(ctx, first.PrimaryGuardianID)
	require.NoError(t, err)
	a, err := postgres.NewAddressRepository(pool).GetByID(ctx, g.AddressID)
	require.NoError(t, err)
	assert.Equal(t, "Av. Paulista", a.Street, "registro compartilhado não muda")

	e, err := postgres.NewEnrollmentRepository(pool).GetByID(ctx, second.EnrollmentID)
	require.NoError(t, err)
	require.NotNil(t, e.PrimaryContact)
	assert.Equal(t, "Rua Augusta", e.PrimaryContact.Address.Street)
}

func ptr[T any](v T) *T { return &v }

func TestUnicidade_ViraUniqueViolation(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := postgres.NewGuardianRepository(pool)
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &entity.Guardian{
		ID: "00000000-0000-0000-0000-000000000001", Name: "A", CPF: "123", Active: true, CreatedAt: now, UpdatedAt: now,
	}))
	// vazios viram NULL e não colidem
	require.NoError(t, repo.Create(ctx, &entity.Guardian{
		ID: "00000000-0000-0000-0000-000000000002", Name: "B", RG: "9", Active: true, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, repo.Create(ctx, &entity.Guardian{
		ID: "00000000-0000-0000-0000-000000000003", Name: "C", RG: "8", Active: true, CreatedAt: now, UpdatedAt: now,
	}))

	err := repo.Create(ctx, &entity.Guardian{
		ID: "00000000-0000-0000-0000-000000000004", Name: "D", CPF: "123", Active: true, CreatedAt: now, UpdatedAt: now,
	})
	var uv *domain.UniqueViolationError
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, "cpf", uv.Field)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	found, err := repo.FindByDocument(ctx, "", "9")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "B", found.Name)

	missing, err := repo.GetByID(ctx, "nao-e-uuid")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserActivity_TouchLastLogin(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	repo := postgres.NewUserActivityRepository(pool)

	later := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TouchLastLogin(ctx, "pais@example.com", later))
	require.NoError(t, repo.TouchLastLogin(ctx, "pais@example.com", later.Add(-time.Hour)))

	var got time.Time
	require.NoError(t, pool.QueryRow(ctx, `SELECT last_login_at FROM user_activity WHERE email = $1`, "pais@example.com").Scan(&got))
	assert.True(t, got.Equal(later))
}

func TestIntegrationAttempt_GravaAvisos(t *testing.T) {
	pool := newTestPool(t)
	ctx := context.Background()
	uc := enrollment.NewUseCase(postgres.NewTxRunner(pool), logger.Nop())
	st, err := uc.Start(ctx, "", dto.StartEnrollmentRequest{Name: "Maria Silva", CPF: "123.456.789-00"})
	require.NoError(t, err)

	repo := postgres.NewIntegrationAttemptRepository(pool)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &entity.IntegrationAttempt{
		ID: "00000000-0000-0000-0000-0000000000a1", EnrollmentID: st.EnrollmentID,
		Operation: entity.OperationInsertStudent, EntityID: st.StudentID, StatusCode: 1, Success: true,
		Warnings: []string{"sTelefone descartado: 16 dígitos (máximo 15)"}, CreatedAt: at,
	}))
	require.NoError(t, repo.Create(ctx, &entity.IntegrationAttempt{
		ID: "00000000-0000-0000-0000-0000000000a2", EnrollmentID: st.EnrollmentID,
		Operation: entity.OperationInsertGuardian, EntityID: st.PrimaryGuardianID, CreatedAt: at.Add(time.Second),
	}))

	list, err := repo.ListByEnrollment(ctx, st.EnrollmentID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"sTelefone descartado: 16 dígitos (máximo 15)"}, list[0].Warnings)
	assert.Empty(t, list[1].Warnings)
}
