package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/opencms-api/internal/domain"
	"github.com/jhoicas/opencms-api/internal/domain/credential"
)

// Credential es el par hash+salt de un usuario (relación 1:1, nunca se borra por separado).
type Credential struct {
	ID        string
	Hash      []byte // credential.HashSize bytes
	Salt      []byte // credential.SaltSize bytes, distinto en cada cambio de contraseña
	CreatedAt time.Time
	UpdatedAt time.Time
	IsActive  bool
}

// NewCredential crea una credencial activa para la contraseña dada.
func NewCredential(password string, now time.Time) (*Credential, error) {
	c := &Credential{
		ID:        uuid.New().String(),
		CreatedAt: now,
		IsActive:  true,
	}
	if err := c.SetPassword(password, now); err != nil {
		return nil, err
	}
	return c, nil
}

// SetPassword regenera el salt y el hash. Si algo falla la credencial queda intacta.
func (c *Credential) SetPassword(password string, now time.Time) error {
	if password == "" {
		return fmt.Errorf("%w: la contraseña es requerida", domain.ErrValidation)
	}
	hash, salt, err := credential.NewHash(password)
	if err != nil {
		return err
	}
	c.Hash, c.Salt = hash, salt
	c.UpdatedAt = now
	return nil
}

// ValidatePassword compara en tiempo constante contra el hash almacenado.
func (c *Credential) ValidatePassword(password string) bool {
	if c == nil {
		return false
	}
	return credential.Verify(password, c.Hash, c.Salt)
}
