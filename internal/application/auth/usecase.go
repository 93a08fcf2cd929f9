package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/opencms-api/internal/application/dto"
	"github.com/jhoicas/opencms-api/internal/application/notification"
	"github.com/jhoicas/opencms-api/internal/domain"
	"github.com/jhoicas/opencms-api/internal/domain/credential"
	"github.com/jhoicas/opencms-api/internal/domain/entity"
	"github.com/jhoicas/opencms-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// Config parámetros del caso de uso.
type Config struct {
	ResetTTL         time.Duration
	ResetLinkBaseURL string
	Now              Clock
	NewToken         TokenGenerator
}

// AuthUseCase registro, login y ciclo de vida de la contraseña.
type AuthUseCase struct {
	users    repository.UserRepository
	resets   *ResetTokenManager
	notifier Notifier
	linkBase string
	now      Clock
	log      zerolog.Logger
	// hashWork una derivación PBKDF2 descartada; iguala el costo de ramas sin verificación real.
	hashWork func(password string)
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, notifier Notifier, cfg Config, log zerolog.Logger) *AuthUseCase {
	resets := NewResetTokenManager(users, ResetConfig{TTL: cfg.ResetTTL, Now: cfg.Now, NewToken: cfg.NewToken})
	return &AuthUseCase{
		users:    users,
		resets:   resets,
		notifier: notifier,
		linkBase: cfg.ResetLinkBaseURL,
		now:      resets.now,
		log:      log,
		hashWork: credential.SimulateVerify,
	}
}

// Register crea un usuario con credencial. ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*entity.User, error) {
	email, err := entity.NewEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := validateNewPassword(in.Password); err != nil {
		return nil, err
	}
	now := uc.now()
	user, err := entity.NewUser(email, in.FirstName, in.LastName, now)
	if err != nil {
		return nil, err
	}
	cred, err := entity.NewCredential(in.Password, now)
	if err != nil {
		return nil, err
	}
	user.Credential = cred
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("usuario registrado")
	return user, nil
}

// Login valida email y contraseña y devuelve el usuario con sus membresías.
// Usuario inexistente, sin credencial o contraseña incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*entity.User, error) {
	email, err := entity.NewEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: la contraseña es requerida", domain.ErrValidation)
	}
	user, err := uc.users.FindByEmailWithMemberships(ctx, email)
	if err != nil {
		return nil, err
	}
	switch {
	case user == nil:
		uc.hashWork(in.Password)
		uc.log.Debug().Str("reason", "unknown_user").Msg("login fallido")
		return nil, domain.ErrUnauthorized
	case !user.HasCredential() || !user.Credential.IsActive:
		uc.hashWork(in.Password)
		uc.log.Debug().Str("reason", "no_credential").Str("user_id", user.ID).Msg("login fallido")
		return nil, domain.ErrUnauthorized
	case !user.Credential.ValidatePassword(in.Password):
		uc.log.Debug().Str("reason", "bad_password").Str("user_id", user.ID).Msg("login fallido")
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// ChangePassword verifica la contraseña actual y la reemplaza.
// El correo de confirmación se encola después de persistir; su fallo no revierte el cambio.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID string, in dto.ChangePasswordRequest) error {
	if err := validateNewPassword(in.NewPassword); err != nil {
		return err
	}
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if !user.HasCredential() {
		return domain.ErrInvalidState
	}
	if !user.Credential.ValidatePassword(in.OldPassword) {
		return domain.ErrInvalidCredential
	}
	now := uc.now()
	if err := user.Credential.SetPassword(in.NewPassword, now); err != nil {
		return err
	}
	user.UpdatedAt = now
	if err := uc.users.Save(ctx, user); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("contraseña cambiada")
	uc.notify(resetConfirmationMessage(user.Email.String()))
	return nil
}

// ResetPassword consume el token y notifica al usuario sólo si tuvo éxito.
func (uc *AuthUseCase) ResetPassword(ctx context.Context, in dto.ResetPasswordRequest) error {
	if in.Token == "" || len(in.Token) > entity.MaxResetTokenLength {
		return domain.ErrInvalidToken
	}
	if err := validateNewPassword(in.NewPassword); err != nil {
		return err
	}
	user, err := uc.resets.Consume(ctx, in.Token, in.NewPassword)
	if err != nil {
		return err
	}
	uc.log.Info().Str("user_id", user.ID).Msg("contraseña restablecida")
	uc.notify(resetConfirmationMessage(user.Email.String()))
	return nil
}

// ForgotPassword emite un token y encola el enlace de restablecimiento.
// Email desconocido: devuelve ("", nil) sin emitir nada. Usuario sin credencial: ErrInvalidState;
// el transporte responde igual en ambos casos. Toda rama hace una derivación PBKDF2 para que
// la latencia no revele si la cuenta existe.
func (uc *AuthUseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) (string, error) {
	email, err := entity.NewEmail(in.Email)
	if err != nil {
		return "", err
	}
	uc.hashWork(email.String())

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", nil
	}
	t, err := uc.resets.Issue(ctx, user)
	if err != nil {
		return "", err
	}
	uc.log.Info().Str("user_id", user.ID).Time("expires_at", t.ExpiresAt).Msg("token de restablecimiento emitido")
	uc.notify(resetRequestMessage(user.Email.String(), ResetLink(uc.linkBase, t.Token, user.Email.String())))
	return t.Token, nil
}

func (uc *AuthUseCase) notify(msg notification.Message) {
	if uc.notifier == nil {
		return
	}
	if !uc.notifier.Enqueue(msg) {
		uc.log.Warn().Str("to", msg.To).Str("subject", msg.Subject).Msg("notificación no encolada")
	}
}

func validateNewPassword(p string) error {
	if len(p) < MinPasswordLength {
		return fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrValidation, MinPasswordLength)
	}
	return nil
}
