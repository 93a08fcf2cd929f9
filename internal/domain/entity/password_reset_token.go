package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/opencms-api/internal/domain"
)

// MaxResetTokenLength capacidad de la columna token.
const MaxResetTokenLength = 256

// PasswordResetToken token de un solo uso: Issued -> Used, o Issued -> Expired (derivado de ExpiresAt).
type PasswordResetToken struct {
	ID        int64 // 0 hasta que el directorio lo persiste
	UserID    string
	Token     string
	ExpiresAt time.Time
	Used      bool
}

// NewPasswordResetToken valida el formato del token antes de construirlo.
func NewPasswordResetToken(userID, token string, expiresAt time.Time) (*PasswordResetToken, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id es requerido", domain.ErrValidation)
	}
	if token == "" || len(token) > MaxResetTokenLength {
		return nil, fmt.Errorf("%w: token de longitud inválida", domain.ErrValidation)
	}
	return &PasswordResetToken{UserID: userID, Token: token, ExpiresAt: expiresAt}, nil
}

// MarkAsUsed transición terminal Issued -> Used.
func (t *PasswordResetToken) MarkAsUsed() {
	t.Used = true
}

// Expired informa si el token ya no es consumible en now.
func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
