package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/opencms-api/internal/domain"
	"github.com/jhoicas/opencms-api/internal/domain/entity"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userCols = []string{
	"id", "email", "first_name", "last_name", "version", "created_at", "updated_at",
	"c_id", "password_hash", "password_salt", "is_active", "c_created_at", "c_updated_at",
}

func newMockRepo(t *testing.T) (*UserRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewUserRepository(mock), mock
}

func ptr[T any](v T) *T { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Lecturas
// ──────────────────────────────────────────────────────────────────────────────

func TestUserRepo_FindByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBeginTx(readOnly)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE u.id = $1")).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows(userCols))
	mock.ExpectCommit()

	u, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_FindByEmailWithMemberships(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	hash := make([]byte, 32)
	salt := make([]byte, 16)

	mock.ExpectBeginTx(readOnly)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE u.email = $1")).
		WithArgs("jane@x.io").
		WillReturnRows(pgxmock.NewRows(userCols).AddRow(
			"u-1", "jane@x.io", "Jane", "Doe", int64(3), now, now,
			ptr("c-1"), hash, salt, ptr(true), ptr(now), ptr(now),
		))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND used = FALSE AND expires_at > now()")).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "token", "expires_at", "used"}).
			AddRow(int64(9), "u-1", "tok-9", now.Add(time.Hour), false))
	mock.ExpectQuery(regexp.QuoteMeta("FROM user_tenant ut")).
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "tenant_id", "name", "role_id", "role_name"}).
			AddRow("u-1", "o-1", "Acme", int16(2), "Administrator"))
	mock.ExpectCommit()

	u, err := repo.FindByEmailWithMemberships(context.Background(), "jane@x.io")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, int64(3), u.Version)
	require.NotNil(t, u.Credential)
	assert.Equal(t, "c-1", u.Credential.ID)
	assert.True(t, u.Credential.IsActive)
	require.Len(t, u.ResetTokens, 1)
	assert.Equal(t, "tok-9", u.ResetTokens[0].Token)
	require.Len(t, u.Memberships, 1)
	assert.Equal(t, "Administrator", u.Memberships[0].RoleName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Find_Unavailable(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBeginTx(readOnly).WillReturnError(&pgconn.PgError{Code: "08006", Message: "connection failure"})

	_, err := repo.FindByResetToken(context.Background(), "tok")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ──────────────────────────────────────────────────────────────────────────────
// Escrituras
// ──────────────────────────────────────────────────────────────────────────────

func TestUserRepo_Save_VersionConflict(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := &entity.User{ID: "u-1", Email: "jane@x.io", FirstName: "Jane", Version: 4}

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND version = $6")).
		WithArgs("u-1", "jane@x.io", "Jane", "", pgxmock.AnyArg(), int64(4)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.Save(context.Background(), u)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(4), u.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Save_ConsumesAndIssuesTokens(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	cred, err := entity.NewCredential("newpass", now)
	require.NoError(t, err)
	u := &entity.User{
		ID: "u-1", Email: "jane@x.io", FirstName: "Jane", Version: 1, Credential: cred,
		ResetTokens: []*entity.PasswordResetToken{
			{ID: 5, UserID: "u-1", Token: "old", ExpiresAt: now.Add(time.Hour), Used: true},
			{UserID: "u-1", Token: "fresh", ExpiresAt: now.Add(time.Hour)},
		},
	}

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET")).
		WithArgs("u-1", "jane@x.io", "Jane", "", pgxmock.AnyArg(), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_credential")).
		WithArgs(cred.ID, "u-1", cred.Hash, cred.Salt, true, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE password_reset_token SET used = TRUE")).
		WithArgs("u-1", []int64{5}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO password_reset_token")).
		WithArgs("u-1", "fresh", pgxmock.AnyArg(), false).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(6)))
	mock.ExpectCommit()

	require.NoError(t, repo.Save(context.Background(), u))
	assert.Equal(t, int64(2), u.Version)
	assert.Equal(t, int64(6), u.ResetTokens[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Save_TokenAlreadyUsedByOtherWriter(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := &entity.User{
		ID: "u-1", Email: "jane@x.io", FirstName: "Jane", Version: 1,
		ResetTokens: []*entity.PasswordResetToken{{ID: 5, UserID: "u-1", Token: "old", Used: true}},
	}

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET")).
		WithArgs("u-1", "jane@x.io", "Jane", "", pgxmock.AnyArg(), int64(1)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE password_reset_token SET used = TRUE")).
		WithArgs("u-1", []int64{5}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Save(context.Background(), u), domain.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	u := &entity.User{ID: "u-1", Email: "jane@x.io", FirstName: "Jane"}

	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("u-1", "jane@x.io", "Jane", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Create(context.Background(), u), domain.ErrEmailAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWrapErr_Classification(t *testing.T) {
	assert.ErrorIs(t, wrapErr("op", context.DeadlineExceeded), domain.ErrUnavailable)
	assert.ErrorIs(t, wrapErr("op", &pgconn.PgError{Code: "57P01"}), domain.ErrUnavailable)
	assert.NotErrorIs(t, wrapErr("op", &pgconn.PgError{Code: "23505"}), domain.ErrUnavailable)
	assert.NotErrorIs(t, wrapErr("op", context.Canceled), domain.ErrUnavailable)
}
