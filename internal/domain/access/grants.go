package access

import (
	"slices"

	"github.com/jhoicas/opencms-api/internal/domain/entity"
)

// Grant par (tenant, rol) tal como viaja en el token: uno por membresía, sin deduplicar.
type Grant struct {
	Tenant string
	Role   string
}

// GrantsOf proyecta las membresías cargadas del usuario.
func GrantsOf(u *entity.User) []Grant {
	if u == nil {
		return nil
	}
	grants := make([]Grant, 0, len(u.Memberships))
	for _, m := range u.Memberships {
		grants = append(grants, Grant{Tenant: m.OrganizationID, Role: m.RoleName})
	}
	return grants
}

func primaryRole(grants []Grant) string {
	for _, kind := range precedence {
		for _, g := range grants {
			if ParseRole(g.Role).Kind == kind {
				return wellKnown[kind]
			}
		}
	}
	if len(grants) > 0 && grants[0].Role != "" {
		return grants[0].Role
	}
	return entity.RoleNameReporter
}

func hasRole(grants []Grant, name string) bool {
	return slices.ContainsFunc(grants, func(g Grant) bool { return SameRole(g.Role, name) })
}

func organizations(grants []Grant) []string {
	out := make([]string, 0, len(grants))
	for _, g := range grants {
		if g.Tenant != "" && !slices.Contains(out, g.Tenant) {
			out = append(out, g.Tenant)
		}
	}
	return out
}

// PrimaryRole rol de mayor precedencia: Super User > Administrator > Investigator > Reviewer;
// si no hay ninguno, el rol de la primera membresía; sin membresías, Reporter.
func PrimaryRole(u *entity.User) string { return primaryRole(GrantsOf(u)) }

// HasRole coincidencia sin distinguir mayúsculas contra cualquier membresía.
func HasRole(u *entity.User, name string) bool { return hasRole(GrantsOf(u), name) }

func IsSuperUser(u *entity.User) bool     { return HasRole(u, entity.RoleNameSuperUser) }
func IsAdministrator(u *entity.User) bool { return HasRole(u, entity.RoleNameAdministrator) }
func IsInvestigator(u *entity.User) bool  { return HasRole(u, entity.RoleNameInvestigator) }
func IsReviewer(u *entity.User) bool      { return HasRole(u, entity.RoleNameReviewer) }

// AccessibleOrganizations organizaciones distintas referenciadas por las membresías, en orden.
func AccessibleOrganizations(u *entity.User) []string { return organizations(GrantsOf(u)) }
