package entity

import (
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/jhoicas/opencms-api/internal/domain"
)

// Email dirección normalizada (trim + minúsculas). Sólo se obtiene vía NewEmail.
type Email string

// NewEmail normaliza y valida la sintaxis antes de cualquier acceso al directorio.
func NewEmail(raw string) (Email, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return "", fmt.Errorf("%w: email es requerido", domain.ErrValidation)
	}
	if !govalidator.IsEmail(v) {
		return "", fmt.Errorf("%w: email inválido", domain.ErrValidation)
	}
	return Email(v), nil
}

func (e Email) String() string { return string(e) }
