package entity

import "time"

// Organization representa un tenant del sistema.
type Organization struct {
	ID          string
	Name        string
	Description string
	IsActive    bool
	UserCount   int
	CreatedAt   time.Time
	UpdatedAt   *time.Time // nil = nunca modificada
}

// Filtros de estado para listados de organizaciones.
const (
	OrganizationStatusAll      = "all"
	OrganizationStatusActive   = "active"
	OrganizationStatusInactive = "inactive"
)

// OrganizationFilter criterios del listado. OrganizationIDs nil = sin restricción
// (super usuario); vacío = el usuario no ve ninguna organización.
type OrganizationFilter struct {
	OrganizationIDs []string
	Search          string
	Status          string
	Limit           int
	Offset          int
}
