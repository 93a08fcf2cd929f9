package auth

import (
	"time"

	"github.com/jhoicas/opencms-api/internal/application/dto"
	"github.com/jhoicas/opencms-api/internal/domain/access"
	"github.com/jhoicas/opencms-api/internal/domain/entity"
	"github.com/jhoicas/opencms-api/pkg/jwt"
)

// SessionTTL duración fija de un token de sesión.
const SessionTTL = 30 * time.Minute

// SessionIssuer firma los claims de sesión derivados del usuario autenticado.
type SessionIssuer struct {
	secret string
	issuer string
	now    Clock
}

// NewSessionIssuer construye el emisor. now nil = time.Now.
func NewSessionIssuer(secret, issuer string, now Clock) *SessionIssuer {
	if now == nil {
		now = time.Now
	}
	return &SessionIssuer{secret: secret, issuer: issuer, now: now}
}

// Issue firma el token y arma la respuesta de login.
func (s *SessionIssuer) Issue(user *entity.User) (*dto.LoginResponse, error) {
	claims := access.ClaimsFor(user)
	now := s.now()
	token, err := jwt.Generate(s.secret, s.issuer, toTokenClaims(claims), now, SessionTTL)
	if err != nil {
		return nil, err
	}
	tenants := make([]dto.TenantResponse, 0, len(user.Memberships))
	for _, m := range user.Memberships {
		tenants = append(tenants, dto.TenantResponse{
			TenantID:   m.OrganizationID,
			TenantName: m.OrganizationName,
			RoleName:   m.RoleName,
		})
	}
	return &dto.LoginResponse{
		UserID:      claims.UserID,
		Email:       claims.Email,
		FirstName:   claims.FirstName,
		LastName:    claims.LastName,
		PrimaryRole: claims.PrimaryRole,
		Tenants:     tenants,
		Token:       token,
		ExpiresAt:   now.Add(SessionTTL),
	}, nil
}

// Verify valida el token y devuelve los claims de sesión.
func (s *SessionIssuer) Verify(token string) (access.SessionClaims, error) {
	c, err := jwt.Parse(s.secret, token)
	if err != nil {
		return access.SessionClaims{}, err
	}
	return FromTokenClaims(c), nil
}

func toTokenClaims(c access.SessionClaims) jwt.Claims {
	out := jwt.Claims{
		UserID:      c.UserID,
		Email:       c.Email,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PrimaryRole: c.PrimaryRole,
	}
	for _, g := range c.Grants {
		out.Roles = append(out.Roles, g.Role)
		out.Tenants = append(out.Tenants, g.Tenant)
	}
	return out
}

// FromTokenClaims reconstruye los claims de sesión desde un token ya validado.
func FromTokenClaims(c *jwt.Claims) access.SessionClaims {
	out := access.SessionClaims{
		UserID:      c.UserID,
		Email:       c.Email,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		PrimaryRole: c.PrimaryRole,
	}
	for i := range c.Roles {
		out.Grants = append(out.Grants, access.Grant{Tenant: c.Tenants[i], Role: c.Roles[i]})
	}
	return out
}
