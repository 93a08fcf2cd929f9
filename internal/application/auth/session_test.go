package auth

import (
	"testing"
	"time"

	"github.com/jhoicas/opencms-api/internal/domain/entity"
	"github.com/jhoicas/opencms-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIssuer_IssueAndVerify(t *testing.T) {
	now := time.Now()
	issuer := NewSessionIssuer("secret", "opencms", func() time.Time { return now })
	u := &entity.User{
		ID: "u-1", Email: "jane@x.io", FirstName: "Jane", LastName: "Doe",
		Memberships: []entity.Membership{
			{UserID: "u-1", OrganizationID: "o1", OrganizationName: "Acme", RoleName: entity.RoleNameReviewer},
			{UserID: "u-1", OrganizationID: "o2", OrganizationName: "Globex", RoleName: entity.RoleNameSuperUser},
		},
	}

	resp, err := issuer.Issue(u)
	require.NoError(t, err)
	assert.Equal(t, "Super User", resp.PrimaryRole)
	assert.Equal(t, now.Add(30*time.Minute), resp.ExpiresAt)
	require.Len(t, resp.Tenants, 2)
	assert.Equal(t, "Globex", resp.Tenants[1].TenantName)

	raw, err := jwt.Parse("secret", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{"Reviewer", "Super User"}, raw.Roles)
	assert.Equal(t, []string{"o1", "o2"}, raw.Tenants)

	claims, err := issuer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.True(t, claims.IsSuperUser())
	assert.True(t, claims.HasRoleIn("Reviewer", "o1"))
}

func TestSessionIssuer_EmptySecret(t *testing.T) {
	_, err := NewSessionIssuer("", "opencms", nil).Issue(&entity.User{ID: "u"})
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}

func TestResetLink_Escapes(t *testing.T) {
	assert.Equal(t,
		"https://h/reset?token=a+b%2F&email=x%2By%40z.io",
		ResetLink("https://h/reset", "a b/", "x+y@z.io"))
}
