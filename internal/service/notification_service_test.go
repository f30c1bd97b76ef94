package service

import (
	"context"
	"testing"

	"bookclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()

	newRepo := func(marked *bool) *notificationRepoStub {
		return &notificationRepoStub{
			getByIDFn: func(_ context.Context, id uint) (*models.Notification, error) {
				return &models.Notification{ID: id, RecipientID: 1}, nil
			},
			markReadFn: func(context.Context, uint) error {
				*marked = true
				return nil
			},
		}
	}

	t.Run("recipient marks their notification", func(t *testing.T) {
		marked := false
		svc := NewNotificationService(newRepo(&marked))

		assert.NoError(t, svc.MarkRead(ctx, 1, 7))
		assert.True(t, marked)
	})

	t.Run("stranger sees not found", func(t *testing.T) {
		marked := false
		svc := NewNotificationService(newRepo(&marked))

		err := svc.MarkRead(ctx, 2, 7)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
		assert.False(t, marked)
	})
}

func TestNotificationService_ListNotifications(t *testing.T) {
	repo := &notificationRepoStub{
		listByRecipientFn: func(_ context.Context, recipientID uint, unreadOnly bool, limit, offset int) ([]*models.Notification, error) {
			assert.True(t, unreadOnly)
			return []*models.Notification{{ID: 1, RecipientID: recipientID, Read: false}}, nil
		},
	}
	svc := NewNotificationService(repo)

	notifications, err := svc.ListNotifications(context.Background(), 1, true, 20, 0)
	require.NoError(t, err)
	assert.Len(t, notifications, 1)
}
