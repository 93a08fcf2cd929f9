package access

import (
	"slices"

	"github.com/jhoicas/opencms-api/internal/domain/entity"
)

// Scope visibilidad de datos por organización. Todo listado o consulta la aplica.
type Scope struct {
	All             bool
	OrganizationIDs []string
}

func scopeOf(grants []Grant) Scope {
	if hasRole(grants, entity.RoleNameSuperUser) {
		return Scope{All: true}
	}
	return Scope{OrganizationIDs: organizations(grants)}
}

// ScopeOf alcance derivado de las membresías del usuario.
func ScopeOf(u *entity.User) Scope { return scopeOf(GrantsOf(u)) }

// Allows informa si la organización es visible dentro del alcance.
func (s Scope) Allows(organizationID string) bool {
	return s.All || slices.Contains(s.OrganizationIDs, organizationID)
}

// Restriction lista para filtros de repositorio: nil = sin restricción; vacío = nada visible.
func (s Scope) Restriction() []string {
	if s.All {
		return nil
	}
	if s.OrganizationIDs == nil {
		return []string{}
	}
	return s.OrganizationIDs
}
