package dto

import "time"

// OrganizationListRequest filtros del listado de organizaciones.
type OrganizationListRequest struct {
	Search string `query:"search"`
	Status string `query:"status" validate:"omitempty,oneof=all active inactive"`
	PageRequest
}

// OrganizationResponse salida de una organización.
type OrganizationResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsActive    bool       `json:"isActive"`
	UserCount   int        `json:"userCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// OrganizationListResponse lista paginada de organizaciones.
type OrganizationListResponse struct {
	Items []OrganizationResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
