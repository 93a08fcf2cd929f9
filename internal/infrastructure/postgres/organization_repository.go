package postgres

import (
	"context"

	"github.com/jhoicas/opencms-api/internal/domain/entity"
	"github.com/jhoicas/opencms-api/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

// OrganizationRepo implementación del puerto OrganizationRepository sobre PostgreSQL.
type OrganizationRepo struct {
	db DB
}

// NewOrganizationRepository construye el adaptador de persistencia para organizaciones.
func NewOrganizationRepository(db DB) *OrganizationRepo {
	return &OrganizationRepo{db: db}
}

// List aplica alcance, búsqueda por nombre, estado y paginación en una sola consulta.
// $1 NULL = sin restricción de organizaciones.
func (r *OrganizationRepo) List(ctx context.Context, f entity.OrganizationFilter) ([]*entity.Organization, int, error) {
	var ids []string
	if f.OrganizationIDs != nil {
		if len(f.OrganizationIDs) == 0 {
			return []*entity.Organization{}, 0, nil
		}
		ids = f.OrganizationIDs
	}
	var limit any
	if f.Limit > 0 {
		limit = f.Limit
	}

	query := `
		SELECT o.id, o.name, o.description, o.is_active, o.created_at, o.updated_at,
		       (SELECT COUNT(*) FROM user_tenant ut WHERE ut.tenant_id = o.id) AS user_count,
		       COUNT(*) OVER () AS total
		FROM organization o
		WHERE ($1::uuid[] IS NULL OR o.id = ANY($1::uuid[]))
		  AND ($2 = '' OR o.name ILIKE '%' || $2 || '%')
		  AND ($3 = 'all' OR ($3 = 'active' AND o.is_active) OR ($3 = 'inactive' AND NOT o.is_active))
		ORDER BY o.name
		LIMIT $4 OFFSET $5`
	status := f.Status
	if status == "" {
		status = entity.OrganizationStatusAll
	}
	rows, err := r.db.Query(ctx, query, ids, f.Search, status, limit, f.Offset)
	if err != nil {
		return nil, 0, wrapErr("list organizations", err)
	}
	defer rows.Close()

	list := make([]*entity.Organization, 0)
	total := 0
	for rows.Next() {
		var o entity.Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Description, &o.IsActive, &o.CreatedAt, &o.UpdatedAt, &o.UserCount, &total); err != nil {
			return nil, 0, wrapErr("scan organization", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("list organizations", err)
	}
	return list, total, nil
}

// Create persiste una organización (seeding y administración).
func (r *OrganizationRepo) Create(ctx context.Context, o *entity.Organization) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO organization (id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.Name, o.Description, o.IsActive, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return wrapErr("insert organization", err)
	}
	return nil
}
