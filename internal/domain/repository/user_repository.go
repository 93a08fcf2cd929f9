package repository

import (
	"context"

	"github.com/jhoicas/opencms-api/internal/domain/entity"
)

// UserRepository puerto del directorio de usuarios (DIP). Las búsquedas devuelven
// (nil, nil) cuando no hay coincidencia.
//
// Save debe serializar las escrituras por usuario: si user.Version ya no coincide con
// la versión almacenada devuelve domain.ErrConflict y no aplica ningún cambio. Una
// escritura cancelada no deja cambios parciales (hash sin salt, token a medio marcar).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email entity.Email) (*entity.User, error)
	// FindByEmailWithMemberships carga credencial, tokens y membresías con roles en una sola lectura consistente.
	FindByEmailWithMemberships(ctx context.Context, email entity.Email) (*entity.User, error)
	// FindByResetToken devuelve el dueño de un token sin usar, con credencial y tokens cargados.
	FindByResetToken(ctx context.Context, token string) (*entity.User, error)
	Save(ctx context.Context, user *entity.User) error
}
