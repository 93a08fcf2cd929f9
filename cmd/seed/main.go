// seed crea una organización, un usuario con contraseña y su membresía de Super User
// en PostgreSQL. Aplica las migraciones antes de insertar.
//
// Uso: go run ./cmd/seed --email admin@opencms.local --password secreto --org "Demo"
// Si el email ya existe reutiliza el usuario y solo agrega la membresía.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/opencms-api/internal/domain"
	"github.com/jhoicas/opencms-api/internal/domain/entity"
	"github.com/jhoicas/opencms-api/internal/infrastructure/postgres"
	"github.com/jhoicas/opencms-api/pkg/config"
	"github.com/jhoicas/opencms-api/pkg/logger"
	"github.com/spf13/pflag"
)

func main() {
	email := pflag.String("email", "admin@opencms.local", "email del usuario administrador")
	password := pflag.String("password", "", "contraseña inicial (requerida)")
	firstName := pflag.String("first-name", "Admin", "nombre")
	lastName := pflag.String("last-name", "", "apellido")
	orgName := pflag.String("org", "Default Organization", "nombre de la organización")
	pflag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "--password es requerido")
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	users := postgres.NewUserRepository(pool)
	orgs := postgres.NewOrganizationRepository(pool)
	now := time.Now().UTC()

	org := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      *orgName,
		IsActive:  true,
		CreatedAt: now,
	}
	if err := orgs.Create(ctx, org); err != nil {
		log.Fatal().Err(err).Msg("crear organización")
	}

	user, err := ensureUser(ctx, users, *email, *firstName, *lastName, *password, now)
	if err != nil {
		log.Fatal().Err(err).Msg("crear usuario")
	}

	m, err := entity.NewMembership(user.ID, org.ID, entity.RoleIDSuperUser)
	if err != nil {
		log.Fatal().Err(err).Msg("membresía")
	}
	if err := users.AddMembership(ctx, m); err != nil {
		log.Fatal().Err(err).Msg("asignar membresía")
	}

	log.Info().
		Str("user_id", user.ID).
		Str("email", user.Email.String()).
		Str("organization_id", org.ID).
		Str("role", entity.RoleNameSuperUser).
		Msg("datos semilla creados")
}

func ensureUser(ctx context.Context, users *postgres.UserRepo, rawEmail, firstName, lastName, password string, now time.Time) (*entity.User, error) {
	email, err := entity.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	user, err := entity.NewUser(email, firstName, lastName, now)
	if err != nil {
		return nil, err
	}
	cred, err := entity.NewCredential(password, now)
	if err != nil {
		return nil, err
	}
	user.Credential = cred

	err = users.Create(ctx, user)
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		existing, findErr := users.FindByEmail(ctx, email)
		if findErr != nil {
			return nil, findErr
		}
		if existing == nil {
			return nil, err
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
