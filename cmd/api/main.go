package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/enrollment"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/application/integration"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/infrastructure/escolar"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/infrastructure/metrics"
	infrapdf "github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/infrastructure/pdf"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/infrastructure/postgres"
	httpRouter "github.com/mari-machado/projeto-pre-matricula-jp-sub000/internal/interfaces/http"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/config"
	"github.com/mari-machado/projeto-pre-matricula-jp-sub000/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	if cfg.DB.RunMigrations {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Named("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migrações")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	m := metrics.New(nil)

	// Sem credenciais o fluxo continua; só a integração fica indisponível.
	var gateway integration.Gateway
	client, err := escolar.NewClient(cfg.Escolar, nil, log.Named("escolar"))
	if err != nil {
		log.Warn().Err(err).Msg("integração com o sistema escolar desativada")
	} else {
		gateway = client
	}

	integrationUC := integration.NewUseCase(integration.Repositories{
		Enrollments: postgres.NewEnrollmentRepository(pool),
		Guardians:   postgres.NewGuardianRepository(pool),
		Students:    postgres.NewStudentRepository(pool),
		Addresses:   postgres.NewAddressRepository(pool),
		Links:       postgres.NewLinkRepository(pool),
		Attempts:    postgres.NewIntegrationAttemptRepository(pool),
	}, gateway, m, log.Named("integration"))

	enrollmentUC := enrollment.NewUseCase(txRunner, log.Named("enrollment"),
		enrollment.WithMetrics(m),
		enrollment.WithReceipts(infrapdf.NewReceiptGenerator(cfg.App.Name)),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: 90 * time.Second, // integração faz várias chamadas remotas em sequência
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Enrollment:  enrollmentUC,
		Integration: integrationUC,
		Auth: httpRouter.AuthConfig{
			Secret:   cfg.JWT.Secret,
			Issuer:   cfg.JWT.Issuer,
			Activity: postgres.NewUserActivityRepository(pool),
			Log:      log.Named("auth"),
		},
		ServiceName: cfg.App.Name,
		Log:         log.Named("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
