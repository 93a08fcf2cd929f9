package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/opencms-api/internal/domain"
	"github.com/jhoicas/opencms-api/internal/domain/entity"
	"github.com/jhoicas/opencms-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// Cada lectura usa una transacción REPEATABLE READ de sólo lectura para que usuario,
// credencial, tokens y membresías salgan del mismo snapshot. Sólo se cargan los tokens sin usar.
type UserRepo struct {
	db DB
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db DB) *UserRepo {
	return &UserRepo{db: db}
}

const selectUser = `
		SELECT u.id, u.email, u.first_name, u.last_name, u.version, u.created_at, u.updated_at,
		       c.id, c.password_hash, c.password_salt, c.is_active, c.created_at, c.updated_at
		FROM users u
		LEFT JOIN user_credential c ON c.user_id = u.id`

const (
	whereUserID     = ` WHERE u.id = $1`
	whereUserEmail  = ` WHERE u.email = $1`
	whereResetToken = ` WHERE u.id = (SELECT t.user_id FROM password_reset_token t WHERE t.token = $1 AND t.used = FALSE LIMIT 1)`
)

// Create persiste usuario, credencial y tokens en una sola transacción.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	var tokenIDs []int64
	err := withTx(ctx, r.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
		INSERT INTO users (id, email, first_name, last_name, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 1, $5, $6)`,
			user.ID, user.Email.String(), user.FirstName, user.LastName, user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrEmailAlreadyExists
			}
			return wrapErr("insert user", err)
		}
		if err := upsertCredential(ctx, tx, user); err != nil {
			return err
		}
		tokenIDs, err = insertNewTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return err
	}
	assignTokenIDs(user, tokenIDs)
	user.Version = 1
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.find(ctx, whereUserID, id, false)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email entity.Email) (*entity.User, error) {
	return r.find(ctx, whereUserEmail, email.String(), false)
}

func (r *UserRepo) FindByEmailWithMemberships(ctx context.Context, email entity.Email) (*entity.User, error) {
	return r.find(ctx, whereUserEmail, email.String(), true)
}

func (r *UserRepo) FindByResetToken(ctx context.Context, token string) (*entity.User, error) {
	return r.find(ctx, whereResetToken, token, false)
}

// Save escribe el agregado si la versión leída sigue vigente; si no, ErrConflict sin cambios.
func (r *UserRepo) Save(ctx context.Context, user *entity.User) error {
	var tokenIDs []int64
	err := withTx(ctx, r.db, pgx.TxOptions{}, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
		UPDATE users SET email = $2, first_name = $3, last_name = $4, updated_at = $5, version = version + 1
		WHERE id = $1 AND version = $6`,
			user.ID, user.Email.String(), user.FirstName, user.LastName, user.UpdatedAt, user.Version,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrEmailAlreadyExists
			}
			return wrapErr("update user", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrConflict
		}
		if err := upsertCredential(ctx, tx, user); err != nil {
			return err
		}
		if err := markUsedTokens(ctx, tx, user); err != nil {
			return err
		}
		tokenIDs, err = insertNewTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		return err
	}
	assignTokenIDs(user, tokenIDs)
	user.Version++
	return nil
}

func (r *UserRepo) find(ctx context.Context, where string, arg any, withMemberships bool) (*entity.User, error) {
	var user *entity.User
	err := withTx(ctx, r.db, readOnly, func(tx pgx.Tx) error {
		u, err := scanUser(tx.QueryRow(ctx, selectUser+where, arg))
		if err != nil || u == nil {
			return err
		}
		if u.ResetTokens, err = loadPendingTokens(ctx, tx, u.ID); err != nil {
			return err
		}
		if withMemberships {
			if u.Memberships, err = loadMemberships(ctx, tx, u.ID); err != nil {
				return err
			}
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u         entity.User
		email     string
		credID    *string
		hash      []byte
		salt      []byte
		active    *bool
		credCAt   *time.Time
		credUpdAt *time.Time
	)
	err := row.Scan(
		&u.ID, &email, &u.FirstName, &u.LastName, &u.Version, &u.CreatedAt, &u.UpdatedAt,
		&credID, &hash, &salt, &active, &credCAt, &credUpdAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, wrapErr("get user", err)
	}
	u.Email = entity.Email(email)
	if credID != nil {
		u.Credential = &entity.Credential{ID: *credID, Hash: hash, Salt: salt, IsActive: active != nil && *active}
		if credCAt != nil {
			u.Credential.CreatedAt = *credCAt
		}
		if credUpdAt != nil {
			u.Credential.UpdatedAt = *credUpdAt
		}
	}
	return &u, nil
}

// loadPendingTokens sólo trae tokens sin usar y vigentes; los vencidos quedan en la tabla
// pero no vuelven a cargarse en el agregado.
func loadPendingTokens(ctx context.Context, tx pgx.Tx, userID string) ([]*entity.PasswordResetToken, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, user_id, token, expires_at, used
		FROM password_reset_token
		WHERE user_id = $1 AND used = FALSE AND expires_at > now()
		ORDER BY id`, userID)
	if err != nil {
		return nil, wrapErr("list reset tokens", err)
	}
	defer rows.Close()
	var list []*entity.PasswordResetToken
	for rows.Next() {
		var t entity.PasswordResetToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Used); err != nil {
			return nil, wrapErr("scan reset token", err)
		}
		list = append(list, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list reset tokens", err)
	}
	return list, nil
}

func loadMemberships(ctx context.Context, tx pgx.Tx, userID string) ([]entity.Membership, error) {
	rows, err := tx.Query(ctx, `
		SELECT ut.user_id, ut.tenant_id, o.name, ut.role_id, r.role_name
		FROM user_tenant ut
		JOIN organization o ON o.id = ut.tenant_id
		JOIN role r ON r.role_id = ut.role_id
		WHERE ut.user_id = $1
		ORDER BY ut.created_at, ut.tenant_id`, userID)
	if err != nil {
		return nil, wrapErr("list memberships", err)
	}
	defer rows.Close()
	var list []entity.Membership
	for rows.Next() {
		var m entity.Membership
		if err := rows.Scan(&m.UserID, &m.OrganizationID, &m.OrganizationName, &m.RoleID, &m.RoleName); err != nil {
			return nil, wrapErr("scan membership", err)
		}
		list = append(list, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list memberships", err)
	}
	return list, nil
}

func upsertCredential(ctx context.Context, tx pgx.Tx, user *entity.User) error {
	c := user.Credential
	if c == nil {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO user_credential (id, user_id, password_hash, password_salt, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			password_salt = EXCLUDED.password_salt,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at`,
		c.ID, user.ID, c.Hash, c.Salt, c.IsActive, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return wrapErr("upsert credential", err)
	}
	return nil
}

func markUsedTokens(ctx context.Context, tx pgx.Tx, user *entity.User) error {
	var ids []int64
	for _, t := range user.ResetTokens {
		if t.Used && t.ID != 0 {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	tag, err := tx.Exec(ctx, `
		UPDATE password_reset_token SET used = TRUE
		WHERE user_id = $1 AND id = ANY($2) AND used = FALSE`, user.ID, ids)
	if err != nil {
		return wrapErr("mark reset tokens used", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return domain.ErrConflict
	}
	return nil
}

func insertNewTokens(ctx context.Context, tx pgx.Tx, user *entity.User) ([]int64, error) {
	var ids []int64
	for _, t := range user.ResetTokens {
		if t.ID != 0 {
			continue
		}
		var id int64
		err := tx.QueryRow(ctx, `
		INSERT INTO password_reset_token (user_id, token, expires_at, used)
		VALUES ($1, $2, $3, $4) RETURNING id`,
			user.ID, t.Token, t.ExpiresAt, t.Used,
		).Scan(&id)
		if err != nil {
			return nil, wrapErr("insert reset token", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// assignTokenIDs aplica los ids generados sólo después del commit.
func assignTokenIDs(user *entity.User, ids []int64) {
	i := 0
	for _, t := range user.ResetTokens {
		if t.ID == 0 && i < len(ids) {
			t.ID = ids[i]
			i++
		}
	}
}

// AddMembership vincula usuario, organización y rol. Duplicado (user, tenant): ErrDuplicate.
func (r *UserRepo) AddMembership(ctx context.Context, m entity.Membership) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_tenant (user_id, tenant_id, role_id) VALUES ($1, $2, $3)`,
		m.UserID, m.OrganizationID, m.RoleID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return wrapErr(fmt.Sprintf("insert membership %s", m.OrganizationID), err)
	}
	return nil
}
