package repository

import (
	"context"

	"github.com/jhoicas/opencms-api/internal/domain/entity"
)

// OrganizationRepository puerto de lectura de organizaciones.
type OrganizationRepository interface {
	// List devuelve la página pedida y el total que cumple el filtro.
	List(ctx context.Context, filter entity.OrganizationFilter) ([]*entity.Organization, int, error)
}
