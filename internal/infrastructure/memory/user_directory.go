// Package memory implementa los puertos de persistencia en memoria del proceso.
// Se usa con STORE_DRIVER=memory en desarrollo local y en las pruebas de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/opencms-api/internal/domain"
	"github.com/jhoicas/opencms-api/internal/domain/entity"
	"github.com/jhoicas/opencms-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserDirectory)(nil)

// UserDirectory guarda copias profundas de los usuarios; cada lectura entrega una copia nueva.
type UserDirectory struct {
	mu          sync.Mutex
	users       map[string]*entity.User
	roles       map[int16]string
	orgNames    map[string]string
	nextTokenID int64
}

// NewUserDirectory construye el directorio con los roles semilla.
func NewUserDirectory() *UserDirectory {
	return &UserDirectory{
		users: make(map[string]*entity.User),
		roles: map[int16]string{
			entity.RoleIDSuperUser:     entity.RoleNameSuperUser,
			entity.RoleIDAdministrator: entity.RoleNameAdministrator,
			entity.RoleIDInvestigator:  entity.RoleNameInvestigator,
			entity.RoleIDReviewer:      entity.RoleNameReviewer,
			entity.RoleIDReporter:      entity.RoleNameReporter,
		},
		orgNames: make(map[string]string),
	}
}

// Create persiste un usuario nuevo. Devuelve ErrEmailAlreadyExists si el email ya existe.
func (d *UserDirectory) Create(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	d.assignTokenIDs(user)
	user.Version = 1
	d.users[user.ID] = user.Clone()
	return nil
}

func (d *UserDirectory) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return d.find(ctx, func(u *entity.User) bool { return u.ID == id })
}

func (d *UserDirectory) FindByEmail(ctx context.Context, email entity.Email) (*entity.User, error) {
	return d.find(ctx, func(u *entity.User) bool { return u.Email == email })
}

func (d *UserDirectory) FindByEmailWithMemberships(ctx context.Context, email entity.Email) (*entity.User, error) {
	return d.FindByEmail(ctx, email)
}

func (d *UserDirectory) FindByResetToken(ctx context.Context, token string) (*entity.User, error) {
	return d.find(ctx, func(u *entity.User) bool { return u.UnusedResetToken(token) != nil })
}

// Save aplica la escritura sólo si la versión no cambió desde la lectura.
func (d *UserDirectory) Save(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	stored, ok := d.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if stored.Version != user.Version {
		return domain.ErrConflict
	}
	d.assignTokenIDs(user)
	user.Version++
	d.users[user.ID] = user.Clone()
	return nil
}

// AddOrganization registra el nombre de una organización para las membresías cargadas.
func (d *UserDirectory) AddOrganization(id, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.orgNames[id] = name
}

// AddMembership vincula un usuario existente a una organización con un rol semilla.
func (d *UserDirectory) AddMembership(ctx context.Context, m entity.Membership) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[m.UserID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if _, ok := d.roles[m.RoleID]; !ok {
		return domain.ErrNotFound
	}
	if err := u.AddMembership(m); err != nil {
		return err
	}
	u.Version++
	return nil
}

func (d *UserDirectory) find(ctx context.Context, match func(*entity.User) bool) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if match(u) {
			return d.withNames(u.Clone()), nil
		}
	}
	return nil, nil
}

// withNames completa rol y organización como lo haría el join en PostgreSQL.
func (d *UserDirectory) withNames(u *entity.User) *entity.User {
	for i := range u.Memberships {
		u.Memberships[i].RoleName = d.roles[u.Memberships[i].RoleID]
		u.Memberships[i].OrganizationName = d.orgNames[u.Memberships[i].OrganizationID]
	}
	return u
}

func (d *UserDirectory) assignTokenIDs(u *entity.User) {
	for _, t := range u.ResetTokens {
		if t.ID == 0 {
			d.nextTokenID++
			t.ID = d.nextTokenID
		}
	}
}
