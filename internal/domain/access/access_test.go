package access

import (
	"testing"

	"github.com/jhoicas/opencms-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func userWith(roles ...[2]string) *entity.User {
	u := &entity.User{ID: "u-1", Email: "jane@x.io", FirstName: "Jane", LastName: "Doe"}
	for _, r := range roles {
		u.Memberships = append(u.Memberships, entity.Membership{UserID: u.ID, OrganizationID: r[0], RoleName: r[1]})
	}
	return u
}

// ──────────────────────────────────────────────────────────────────────────────
// Rol primario
// ──────────────────────────────────────────────────────────────────────────────

func TestPrimaryRole(t *testing.T) {
	tests := []struct {
		name string
		user *entity.User
		want string
	}{
		{"super user gana a reviewer", userWith([2]string{"o1", "Reviewer"}, [2]string{"o2", "Super User"}), "Super User"},
		{"administrator sobre investigator", userWith([2]string{"o1", "Investigator"}, [2]string{"o2", "Administrator"}), "Administrator"},
		{"investigator sobre reviewer", userWith([2]string{"o1", "Reviewer"}, [2]string{"o2", "Investigator"}), "Investigator"},
		{"sólo reporter", userWith([2]string{"o1", "Reporter"}), "Reporter"},
		{"rol desconocido usa la primera membresía", userWith([2]string{"o1", "Auditor"}, [2]string{"o2", "Reporter"}), "Auditor"},
		{"sin membresías", userWith(), "Reporter"},
		{"sin distinguir mayúsculas", userWith([2]string{"o1", "super user"}), "Super User"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PrimaryRole(tt.user))
		})
	}
}

func TestHasRole(t *testing.T) {
	u := userWith([2]string{"o1", "reviewer"}, [2]string{"o2", "ADMINISTRATOR"})

	assert.True(t, HasRole(u, "Reviewer"))
	assert.True(t, IsAdministrator(u))
	assert.True(t, IsReviewer(u))
	assert.False(t, IsSuperUser(u))
	assert.False(t, IsInvestigator(u))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, Role{Kind: KindSuperUser, Name: "Super User"}, ParseRole("SUPER USER"))
	assert.Equal(t, Role{Kind: KindOther, Name: "Auditor"}, ParseRole("Auditor"))
	assert.True(t, SameRole("Straße", "STRASSE"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Organizaciones y alcance
// ──────────────────────────────────────────────────────────────────────────────

func TestAccessibleOrganizations_Distinct(t *testing.T) {
	u := userWith([2]string{"o1", "Reviewer"}, [2]string{"o2", "Reporter"}, [2]string{"o1", "Investigator"})
	assert.Equal(t, []string{"o1", "o2"}, AccessibleOrganizations(u))
	assert.Empty(t, AccessibleOrganizations(userWith()))
}

func TestScope(t *testing.T) {
	admin := ScopeOf(userWith([2]string{"o1", "Administrator"}))
	assert.False(t, admin.All)
	assert.True(t, admin.Allows("o1"))
	assert.False(t, admin.Allows("o2"))
	assert.Equal(t, []string{"o1"}, admin.Restriction())

	super := ScopeOf(userWith([2]string{"o1", "Super User"}))
	assert.True(t, super.Allows("o9"))
	assert.Nil(t, super.Restriction())

	none := ScopeOf(userWith())
	assert.NotNil(t, none.Restriction())
	assert.Empty(t, none.Restriction())
	assert.False(t, none.Allows("o1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Claims de sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestClaimsFor_RepeatsGrantPerMembership(t *testing.T) {
	u := userWith([2]string{"o1", "Reviewer"}, [2]string{"o2", "Reviewer"}, [2]string{"o3", "Administrator"})

	c := ClaimsFor(u)
	assert.Equal(t, "u-1", c.UserID)
	assert.Equal(t, "jane@x.io", c.Email)
	assert.Equal(t, "Administrator", c.PrimaryRole)
	assert.Equal(t, []Grant{
		{Tenant: "o1", Role: "Reviewer"},
		{Tenant: "o2", Role: "Reviewer"},
		{Tenant: "o3", Role: "Administrator"},
	}, c.Grants)

	assert.True(t, c.HasRoleIn("reviewer", "o2"))
	assert.False(t, c.HasRoleIn("Administrator", "o1"))
	assert.True(t, c.HasRole("Administrator"))
	assert.False(t, c.IsSuperUser())
	assert.Equal(t, []string{"o1", "o2", "o3"}, c.Scope().Restriction())
}
