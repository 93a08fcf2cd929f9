package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/opencms-api/internal/application/auth"
	"github.com/jhoicas/opencms-api/internal/application/notification"
	"github.com/jhoicas/opencms-api/internal/application/usecase"
	"github.com/jhoicas/opencms-api/internal/domain/repository"
	"github.com/jhoicas/opencms-api/internal/infrastructure/mail"
	"github.com/jhoicas/opencms-api/internal/infrastructure/memory"
	"github.com/jhoicas/opencms-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/opencms-api/internal/interfaces/http"
	"github.com/jhoicas/opencms-api/pkg/config"
	"github.com/jhoicas/opencms-api/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// stores repositorios según el driver configurado.
type stores struct {
	users         repository.UserRepository
	organizations repository.OrganizationRepository
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer st.close()

	sender := mail.NewSMTPSender(cfg.Mail)
	dispatcher := notification.NewDispatcher(sender, notification.Config{
		Workers:     cfg.Notify.Workers,
		QueueSize:   cfg.Notify.QueueSize,
		SendTimeout: cfg.Notify.SendTimeout(),
	}, log.Component("notification"))

	authUC := auth.NewAuthUseCase(st.users, dispatcher, auth.Config{
		ResetTTL:         cfg.Reset.TokenTTL(),
		ResetLinkBaseURL: cfg.Reset.LinkBaseURL,
	}, log.Component("auth"))
	sessions := auth.NewSessionIssuer(cfg.JWT.Secret, cfg.JWT.Issuer, nil)
	organizationUC := usecase.NewOrganizationUseCase(st.organizations)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "OpenCMS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		Sessions:       sessions,
		OrganizationUC: organizationUC,
		JWTSecret:      cfg.JWT.Secret,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(gctx)
	})
	g.Go(func() error {
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("aplicación finalizada con error")
		os.Exit(1)
	}
	log.Info().Msg("aplicación detenida")
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*stores, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &stores{
			users:         memory.NewUserDirectory(),
			organizations: memory.NewOrganizationStore(),
			close:         func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if err := postgres.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &stores{
		users:         postgres.NewUserRepository(pool),
		organizations: postgres.NewOrganizationRepository(pool),
		close:         pool.Close,
	}, nil
}
