package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/opencms-api/internal/domain"
)

// Longitudes máximas de columnas en la tabla users.
const (
	MaxFirstNameLength = 50
	MaxLastNameLength  = 50
)

// User es la raíz del agregado de identidad: credencial, tokens de restablecimiento
// y membresías viven dentro de él y se persisten en la misma escritura.
type User struct {
	ID          string
	Email       Email
	FirstName   string
	LastName    string
	Credential  *Credential // nil = el usuario no puede autenticarse
	ResetTokens []*PasswordResetToken
	Memberships []Membership
	Version     int64 // control de concurrencia optimista; lo mantiene el directorio
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewUser construye un usuario validando los campos obligatorios.
func NewUser(email Email, firstName, lastName string, now time.Time) (*User, error) {
	if email == "" {
		return nil, fmt.Errorf("%w: email es requerido", domain.ErrValidation)
	}
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" {
		return nil, fmt.Errorf("%w: el nombre es requerido", domain.ErrValidation)
	}
	if len(firstName) > MaxFirstNameLength || len(lastName) > MaxLastNameLength {
		return nil, fmt.Errorf("%w: nombre demasiado largo", domain.ErrValidation)
	}
	return &User{
		ID:        uuid.New().String(),
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HasCredential informa si el usuario puede autenticarse o restablecer contraseña.
func (u *User) HasCredential() bool {
	return u != nil && u.Credential != nil
}

// CreatePasswordResetToken agrega un token nuevo sin usar al agregado.
// Falla con ErrInvalidState si el usuario no tiene credencial.
func (u *User) CreatePasswordResetToken(token string, now time.Time, ttl time.Duration) (*PasswordResetToken, error) {
	if !u.HasCredential() {
		return nil, domain.ErrInvalidState
	}
	t, err := NewPasswordResetToken(u.ID, token, now.Add(ttl))
	if err != nil {
		return nil, err
	}
	u.ResetTokens = append(u.ResetTokens, t)
	u.UpdatedAt = now
	return t, nil
}

// UnusedResetToken busca un token sin usar con coincidencia exacta (sensible a mayúsculas).
func (u *User) UnusedResetToken(token string) *PasswordResetToken {
	for _, t := range u.ResetTokens {
		if !t.Used && t.Token == token {
			return t
		}
	}
	return nil
}

// AddMembership vincula el usuario a una organización con un rol.
// Una segunda membresía en la misma organización se rechaza (clave compuesta user+org).
func (u *User) AddMembership(m Membership) error {
	if m.UserID != u.ID {
		return fmt.Errorf("%w: la membresía pertenece a otro usuario", domain.ErrValidation)
	}
	for _, existing := range u.Memberships {
		if existing.OrganizationID == m.OrganizationID {
			return domain.ErrDuplicate
		}
	}
	u.Memberships = append(u.Memberships, m)
	return nil
}

// Clone devuelve una copia profunda; los directorios en memoria la usan para no
// compartir punteros entre peticiones.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Credential != nil {
		cred := *u.Credential
		cred.Hash = append([]byte(nil), u.Credential.Hash...)
		cred.Salt = append([]byte(nil), u.Credential.Salt...)
		c.Credential = &cred
	}
	c.ResetTokens = make([]*PasswordResetToken, 0, len(u.ResetTokens))
	for _, t := range u.ResetTokens {
		tc := *t
		c.ResetTokens = append(c.ResetTokens, &tc)
	}
	c.Memberships = append([]Membership(nil), u.Memberships...)
	return &c
}
