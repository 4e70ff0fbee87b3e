package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupNotificationDB(t *testing.T) NotificationRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&Notification{}))
	return NewNotificationRepository(db)
}

func TestExistsByRelated(t *testing.T) {
	repo := setupNotificationDB(t)

	relatedID := "17"
	require.NoError(t, repo.Create(&Notification{
		ReceiverID: 1,
		Message:    "Reminder: booking tomorrow",
		Type:       TypeReminder,
		RelatedID:  &relatedID,
	}))

	exists, err := repo.ExistsByRelated("17", TypeReminder)
	require.NoError(t, err)
	assert.True(t, exists)

	// Same related id but different type does not count.
	exists, err = repo.ExistsByRelated("17", TypeInfo)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = repo.ExistsByRelated("18", TypeReminder)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMarkReadScopedToReceiver(t *testing.T) {
	repo := setupNotificationDB(t)

	n := &Notification{ReceiverID: 1, Message: "hello", Type: TypeInfo}
	require.NoError(t, repo.Create(n))

	// Another member cannot mark someone else's notification.
	ok, err := repo.MarkRead(n.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.MarkRead(n.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	list, total, err := repo.GetByReceiver(1, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)
}
