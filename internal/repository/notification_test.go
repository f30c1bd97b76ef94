package repository

import (
	"context"
	"regexp"
	"testing"

	"bookclub/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	n := &models.Notification{
		RecipientID: 1,
		ActorID:     2,
		Verb:        models.VerbLikedPost,
		TargetType:  models.TargetPost,
		TargetID:    5,
	}
	err := repo.Create(context.Background(), n)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_ListByRecipient(t *testing.T) {
	t.Run("all notifications newest first", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewNotificationRepository(db)

		rows := sqlmock.NewRows([]string{"id", "recipient_id", "actor_id", "verb", "read"}).
			AddRow(2, 1, 3, models.VerbCommentedPost, false).
			AddRow(1, 1, 2, models.VerbLikedPost, true)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notifications"`)).
			WillReturnRows(rows)
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).
				AddRow(2, "alice").
				AddRow(3, "bob"))

		notifications, err := repo.ListByRecipient(context.Background(), 1, false, 20, 0)
		assert.NoError(t, err)
		require.Len(t, notifications, 2)
		assert.Equal(t, models.VerbCommentedPost, notifications[0].Verb)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unread filter narrows the set", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewNotificationRepository(db)

		mock.ExpectQuery(`read = \$2`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "recipient_id", "actor_id", "verb", "read"}).
				AddRow(2, 1, 3, models.VerbCommentedPost, false))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users"`)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(3, "bob"))

		notifications, err := repo.ListByRecipient(context.Background(), 1, true, 20, 0)
		assert.NoError(t, err)
		require.Len(t, notifications, 1)
		assert.False(t, notifications[0].Read)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepository_MarkRead(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewNotificationRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "notifications"`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.MarkRead(context.Background(), 1)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing notification reports not found", func(t *testing.T) {
		db, mock := setupMockDB(t)
		repo := NewNotificationRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE "notifications"`)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		err := repo.MarkRead(context.Background(), 99)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNotificationRepository_DeleteMatching(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "notifications"`)).
		WithArgs(1, 2, models.VerbLikedPost, models.TargetPost, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteMatching(context.Background(), 1, 2, models.VerbLikedPost, models.TargetPost, 5)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
