package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/opencms-api/internal/application/dto"
	"github.com/jhoicas/opencms-api/internal/domain"
	"github.com/jhoicas/opencms-api/internal/domain/access"
	"github.com/jhoicas/opencms-api/internal/domain/entity"
	"github.com/jhoicas/opencms-api/internal/domain/repository"
)

// OrganizationUseCase listados de organizaciones acotados por el alcance del usuario.
type OrganizationUseCase struct {
	repo repository.OrganizationRepository
}

// NewOrganizationUseCase construye el caso de uso con el puerto de persistencia.
func NewOrganizationUseCase(repo repository.OrganizationRepository) *OrganizationUseCase {
	return &OrganizationUseCase{repo: repo}
}

// List lista las organizaciones visibles para scope. Un usuario sin membresías recibe una lista vacía.
func (uc *OrganizationUseCase) List(ctx context.Context, scope access.Scope, in dto.OrganizationListRequest) (*dto.OrganizationListResponse, error) {
	in.DefaultPage()
	if in.Limit > 100 {
		in.Limit = 100
	}
	status := in.Status
	if status == "" {
		status = entity.OrganizationStatusAll
	}
	switch status {
	case entity.OrganizationStatusAll, entity.OrganizationStatusActive, entity.OrganizationStatusInactive:
	default:
		return nil, fmt.Errorf("%w: status debe ser all, active o inactive", domain.ErrValidation)
	}

	list, total, err := uc.repo.List(ctx, entity.OrganizationFilter{
		OrganizationIDs: scope.Restriction(),
		Search:          in.Search,
		Status:          status,
		Limit:           in.Limit,
		Offset:          in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrganizationResponse, 0, len(list))
	for _, o := range list {
		items = append(items, entityToOrganizationResponse(o))
	}
	return &dto.OrganizationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

func entityToOrganizationResponse(o *entity.Organization) dto.OrganizationResponse {
	return dto.OrganizationResponse{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		IsActive:    o.IsActive,
		UserCount:   o.UserCount,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}
