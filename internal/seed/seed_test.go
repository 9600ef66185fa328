package seed

import (
	"testing"

	lessondomain "github.com/darsh196/learnzone/internal/lesson/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureLessonsIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&lessondomain.Lesson{}))

	require.NoError(t, EnsureLessons(db))
	require.NoError(t, EnsureLessons(db))

	var count int64
	require.NoError(t, db.Model(&lessondomain.Lesson{}).Count(&count).Error)
	assert.Equal(t, int64(len(defaultLessons)), count)
}

func TestEnsureLessonsLeavesLiveInventoryAlone(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&lessondomain.Lesson{}))

	require.NoError(t, EnsureLessons(db))
	require.NoError(t, db.Exec("UPDATE lessons SET available_inventory = 1 WHERE id = 1").Error)

	require.NoError(t, EnsureLessons(db))

	var lesson lessondomain.Lesson
	require.NoError(t, db.First(&lesson, "id = ?", 1).Error)
	assert.Equal(t, 1, lesson.AvailableInventory)
}
