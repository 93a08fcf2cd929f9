package entity

import (
	"fmt"

	"github.com/jhoicas/opencms-api/internal/domain"
)

// Membership vincula (usuario, organización, rol). Identidad compuesta user+organization.
// RoleName y OrganizationName los completa el directorio al cargar el usuario.
type Membership struct {
	UserID           string
	OrganizationID   string
	OrganizationName string
	RoleID           int16
	RoleName         string
}

// NewMembership valida los tres campos obligatorios.
func NewMembership(userID, organizationID string, roleID int16) (Membership, error) {
	if userID == "" {
		return Membership{}, fmt.Errorf("%w: user_id es requerido en la membresía", domain.ErrValidation)
	}
	if organizationID == "" {
		return Membership{}, fmt.Errorf("%w: organization_id es requerido en la membresía", domain.ErrValidation)
	}
	if roleID <= 0 {
		return Membership{}, fmt.Errorf("%w: role_id es requerido en la membresía", domain.ErrValidation)
	}
	return Membership{UserID: userID, OrganizationID: organizationID, RoleID: roleID}, nil
}
