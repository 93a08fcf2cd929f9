package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/jhoicas/opencms-api/internal/domain/entity"
	"github.com/jhoicas/opencms-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationStore)(nil)

// OrganizationStore listado de organizaciones en memoria.
type OrganizationStore struct {
	mu   sync.RWMutex
	orgs []*entity.Organization
}

func NewOrganizationStore() *OrganizationStore {
	return &OrganizationStore{}
}

// Add registra una organización.
func (s *OrganizationStore) Add(org *entity.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *org
	s.orgs = append(s.orgs, &c)
}

// List aplica filtro, orden por nombre y paginación como la consulta SQL.
func (s *OrganizationStore) List(ctx context.Context, f entity.OrganizationFilter) ([]*entity.Organization, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(f.Search)
	var matched []*entity.Organization
	for _, o := range s.orgs {
		if f.OrganizationIDs != nil && !slices.Contains(f.OrganizationIDs, o.ID) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(o.Name), search) {
			continue
		}
		if f.Status == entity.OrganizationStatusActive && !o.IsActive {
			continue
		}
		if f.Status == entity.OrganizationStatusInactive && o.IsActive {
			continue
		}
		c := *o
		matched = append(matched, &c)
	}
	slices.SortFunc(matched, func(a, b *entity.Organization) int { return strings.Compare(a.Name, b.Name) })

	total := len(matched)
	if f.Offset >= total {
		// Igual que COUNT(*) OVER () en PostgreSQL: sin filas en la página no hay total.
		return []*entity.Organization{}, 0, nil
	}
	end := total
	if f.Limit > 0 && f.Offset+f.Limit < total {
		end = f.Offset + f.Limit
	}
	return matched[f.Offset:end], total, nil
}
