package access

import "github.com/jhoicas/opencms-api/internal/domain/entity"

// SessionClaims hechos de identidad y rol que se firman en el token de sesión.
type SessionClaims struct {
	UserID      string
	Email       string
	FirstName   string
	LastName    string
	PrimaryRole string
	Grants      []Grant
}

// ClaimsFor construye los claims a partir de un usuario con membresías cargadas.
func ClaimsFor(u *entity.User) SessionClaims {
	grants := GrantsOf(u)
	return SessionClaims{
		UserID:      u.ID,
		Email:       u.Email.String(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PrimaryRole: primaryRole(grants),
		Grants:      grants,
	}
}

// HasRole aplica la misma comparación que sobre el usuario cargado.
func (c SessionClaims) HasRole(name string) bool {
	return SameRole(c.PrimaryRole, name) || hasRole(c.Grants, name)
}

// HasRoleIn informa si el portador tiene el rol en el tenant dado.
func (c SessionClaims) HasRoleIn(name, tenant string) bool {
	for _, g := range c.Grants {
		if g.Tenant == tenant && SameRole(g.Role, name) {
			return true
		}
	}
	return false
}

func (c SessionClaims) IsSuperUser() bool { return hasRole(c.Grants, entity.RoleNameSuperUser) }

// Scope alcance de organizaciones del portador del token.
func (c SessionClaims) Scope() Scope { return scopeOf(c.Grants) }
