package dto

import "time"

// RegisterRequest entrada para registro: email, nombres y contraseña.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"omitempty,max=50"`
	Password  string `json:"password" validate:"required,min=6"`
}

// UserResponse salida de un usuario (sin credencial).
type UserResponse struct {
	ID        string    `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TenantResponse una membresía del usuario tal como la ve el cliente.
type TenantResponse struct {
	TenantID   string `json:"tenantId"`
	TenantName string `json:"tenantName"`
	RoleName   string `json:"roleName"`
}

// LoginResponse identidad, membresías y token de sesión firmado.
type LoginResponse struct {
	UserID      string           `json:"userId"`
	Email       string           `json:"email"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	PrimaryRole string           `json:"primaryRole"`
	Tenants     []TenantResponse `json:"tenants"`
	Token       string           `json:"token"`
	ExpiresAt   time.Time        `json:"expiresAt"`
}

// ForgotPasswordRequest solicitud de enlace de restablecimiento.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest consumo de un token de restablecimiento.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required,max=256"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ChangePasswordRequest cambio de contraseña con sesión activa.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// MessageResponse respuesta genérica sin datos.
type MessageResponse struct {
	Message string `json:"message"`
}

// GrantResponse par rol/tenant del token.
type GrantResponse struct {
	Tenant string `json:"tenant"`
	Role   string `json:"role"`
}

// SessionResponse claims de la sesión actual.
type SessionResponse struct {
	UserID      string          `json:"userId"`
	Email       string          `json:"email"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	PrimaryRole string          `json:"primaryRole"`
	Grants      []GrantResponse `json:"grants"`
	SuperUser   bool            `json:"superUser"`
}
