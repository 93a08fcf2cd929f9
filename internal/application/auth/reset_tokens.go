package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/opencms-api/internal/domain"
	"github.com/jhoicas/opencms-api/internal/domain/entity"
	"github.com/jhoicas/opencms-api/internal/domain/repository"
)

// ResetConfig parámetros del ciclo de vida de los tokens.
type ResetConfig struct {
	TTL      time.Duration  // 0 = DefaultResetTokenTTL
	Now      Clock          // nil = time.Now
	NewToken TokenGenerator // nil = UUID v4
}

// ResetTokenManager emite y consume tokens de un solo uso sobre el agregado User.
type ResetTokenManager struct {
	users    repository.UserRepository
	ttl      time.Duration
	now      Clock
	newToken TokenGenerator
}

// maxSaveAttempts intentos ante conflictos de versión en Issue y Consume.
const maxSaveAttempts = 3

// NewResetTokenManager construye el gestor con defaults para los campos vacíos.
func NewResetTokenManager(users repository.UserRepository, cfg ResetConfig) *ResetTokenManager {
	m := &ResetTokenManager{users: users, ttl: cfg.TTL, now: cfg.Now, newToken: cfg.NewToken}
	if m.ttl <= 0 {
		m.ttl = DefaultResetTokenTTL
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.newToken == nil {
		m.newToken = newUUIDToken
	}
	return m
}

// Issue agrega un token nuevo al usuario y persiste el agregado.
// ErrInvalidState si el usuario no tiene credencial. Un conflicto de versión recarga el usuario
// y reintenta; agotados los intentos devuelve ErrConflict.
func (m *ResetTokenManager) Issue(ctx context.Context, user *entity.User) (*entity.PasswordResetToken, error) {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		if attempt > 0 {
			fresh, err := m.users.FindByID(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			if fresh == nil {
				return nil, domain.ErrUserNotFound
			}
			user = fresh
		}
		t, err := user.CreatePasswordResetToken(m.newToken(), m.now(), m.ttl)
		if err != nil {
			return nil, err
		}
		err = m.users.Save(ctx, user)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, domain.ErrConflict
}

// Consume cambia la contraseña del dueño de un token vigente y lo marca usado en la misma escritura.
// Token inexistente, usado o vencido: ErrInvalidToken. Un conflicto de versión recarga el usuario
// y reintenta; si el token ya lo consumió otro escritor, la recarga ya no lo encuentra.
// Agotados los intentos con el token todavía vigente: ErrConflict.
func (m *ResetTokenManager) Consume(ctx context.Context, token, newPassword string) (*entity.User, error) {
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		user, err := m.consumeOnce(ctx, token, newPassword)
		if errors.Is(err, domain.ErrConflict) {
			continue
		}
		return user, err
	}
	return nil, domain.ErrConflict
}

func (m *ResetTokenManager) consumeOnce(ctx context.Context, token, newPassword string) (*entity.User, error) {
	user, err := m.users.FindByResetToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasCredential() {
		return nil, domain.ErrInvalidToken
	}
	t := user.UnusedResetToken(token)
	now := m.now()
	if t == nil || t.Expired(now) {
		return nil, domain.ErrInvalidToken
	}
	if err := user.Credential.SetPassword(newPassword, now); err != nil {
		return nil, err
	}
	t.MarkAsUsed()
	user.UpdatedAt = now
	if err := m.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
