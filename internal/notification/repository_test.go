package notification

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"startupteam_backend/internal/common"
	"startupteam_backend/internal/platform/database/dbtest"
)

func TestGORMRepository_ListAndMarkRead(t *testing.T) {
	repo := NewGORMRepository(dbtest.New(t, &Notification{}))
	ctx := context.Background()
	userID := uuid.New()
	other := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &Notification{
			UserID: userID, Type: RoleMatch, Message: "match", CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	foreign := &Notification{UserID: other, Type: RoleMatch, Message: "not yours"}
	require.NoError(t, repo.Create(ctx, foreign))

	page, pagination, err := repo.GetByUserID(ctx, userID, common.PaginationQuery{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.EqualValues(t, 3, pagination.TotalItems)
	assert.True(t, page[0].CreatedAt.After(page[1].CreatedAt))

	err = repo.MarkAsRead(ctx, foreign.ID, userID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, repo.MarkAsRead(ctx, page[0].ID, userID))
	require.NoError(t, repo.MarkAsRead(ctx, page[0].ID, userID))

	unread, err := repo.CountUnread(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, unread)

	updated, err := repo.MarkAllAsRead(ctx, userID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, updated)

	unread, err = repo.CountUnread(ctx, other)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)
}
