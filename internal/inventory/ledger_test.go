package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/darsh196/learnzone/internal/clock"
	lessondomain "github.com/darsh196/learnzone/internal/lesson/domain"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&lessondomain.Lesson{}))

	// Single connection keeps in-memory sqlite stable across goroutines.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func seedLesson(t *testing.T, db *gorm.DB, id int64, inventory int) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, db.Create(&lessondomain.Lesson{
		ID:                 id,
		Subject:            "Mathematics",
		Location:           "Hendon",
		Price:              100,
		AvailableInventory: inventory,
		CreatedAt:          now,
		UpdatedAt:          now,
	}).Error)
}

func lessonInventory(t *testing.T, db *gorm.DB, id int64) int {
	t.Helper()
	var lesson lessondomain.Lesson
	require.NoError(t, db.First(&lesson, "id = ?", id).Error)
	return lesson.AvailableInventory
}

func TestTryDecrementReducesInventory(t *testing.T) {
	db := newTestDB(t)
	seedLesson(t, db, 1, 5)

	ledger := NewLedger(Params{Clock: clock.NewFakeClock(time.Now().UTC())})

	require.NoError(t, ledger.TryDecrement(context.Background(), db, 1))
	assert.Equal(t, 4, lessonInventory(t, db, 1))
}

func TestTryDecrementNeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	seedLesson(t, db, 1, 1)

	ledger := NewLedger(Params{Clock: clock.NewFakeClock(time.Now().UTC())})
	ctx := context.Background()

	require.NoError(t, ledger.TryDecrement(ctx, db, 1))

	err := ledger.TryDecrement(ctx, db, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLessonExhausted)
	assert.Equal(t, 0, lessonInventory(t, db, 1))
}

func TestTryDecrementUnknownLesson(t *testing.T) {
	db := newTestDB(t)
	seedLesson(t, db, 1, 5)

	ledger := NewLedger(Params{Clock: clock.NewFakeClock(time.Now().UTC())})

	err := ledger.TryDecrement(context.Background(), db, 99)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLessonNotFound)

	var derr *DecrementError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, int64(99), derr.LessonID)
}

func TestTryDecrementLastUnitSingleWinner(t *testing.T) {
	db := newTestDB(t)
	seedLesson(t, db, 1, 1)

	ledger := NewLedger(Params{Clock: clock.NewFakeClock(time.Now().UTC())})
	ctx := context.Background()

	const contenders = 8
	results := make([]error, contenders)

	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ledger.TryDecrement(ctx, db, 1)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, ErrLessonExhausted)
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 0, lessonInventory(t, db, 1))
}
