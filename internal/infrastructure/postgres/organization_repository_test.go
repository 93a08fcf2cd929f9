package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jhoicas/opencms-api/internal/domain/entity"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrganizationRepo_List_Scoped(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewOrganizationRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM organization o")).
		WithArgs([]string{"o-1"}, "ac", "active", 10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "is_active", "created_at", "updated_at", "user_count", "total"}).
			AddRow("o-1", "Acme", "", true, now, (*time.Time)(nil), 3, 1))

	list, total, err := repo.List(context.Background(), entity.OrganizationFilter{
		OrganizationIDs: []string{"o-1"}, Search: "ac", Status: "active", Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].UserCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrganizationRepo_List_EmptyScopeSkipsQuery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	list, total, err := NewOrganizationRepository(mock).List(context.Background(), entity.OrganizationFilter{OrganizationIDs: []string{}})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}
