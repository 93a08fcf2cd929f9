package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/opencms-api/internal/application/notification"
)

// Clock fuente de tiempo inyectable (time.Now en producción).
type Clock func() time.Time

// TokenGenerator produce el valor opaco de un token de restablecimiento.
type TokenGenerator func() string

// Notifier cola de correos fire-and-forget. Enqueue nunca bloquea; false = descartado.
type Notifier interface {
	Enqueue(msg notification.Message) bool
}

// DefaultResetTokenTTL vigencia de un token de restablecimiento.
const DefaultResetTokenTTL = time.Hour

// MinPasswordLength longitud mínima de una contraseña nueva.
const MinPasswordLength = 6

func newUUIDToken() string { return uuid.NewString() }
