package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/darsh196/learnzone/internal/clock"
	"github.com/darsh196/learnzone/internal/config"
	"github.com/darsh196/learnzone/internal/inventory"
	lessondomain "github.com/darsh196/learnzone/internal/lesson/domain"
	orderdomain "github.com/darsh196/learnzone/internal/order/domain"
	"github.com/darsh196/learnzone/internal/order/repository"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db    *gorm.DB
	clock *clock.FakeClock
	svc   orderdomain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&lessondomain.Lesson{}, &orderdomain.Order{}))

	// Single connection serializes competing transactions on in-memory sqlite.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:      db,
		Log:     zap.NewNop(),
		Clock:   fakeClock,
		GenID:   node,
		Catalog: config.NewStaticCatalogConfigHolder(config.DefaultCatalogConfig()),
		Ledger:  inventory.NewLedger(inventory.Params{Clock: fakeClock}),
		Repo:    repository.Provide(),
	})

	return &fixture{db: db, clock: fakeClock, svc: svc}
}

func (f *fixture) seedLesson(t *testing.T, id int64, inv int) {
	t.Helper()
	now := f.clock.Now()
	require.NoError(t, f.db.Create(&lessondomain.Lesson{
		ID:                 id,
		Subject:            "Mathematics",
		Location:           "Hendon",
		Price:              100,
		AvailableInventory: inv,
		CreatedAt:          now,
		UpdatedAt:          now,
	}).Error)
}

func (f *fixture) inventoryOf(t *testing.T, id int64) int {
	t.Helper()
	var lesson lessondomain.Lesson
	require.NoError(t, f.db.First(&lesson, "id = ?", id).Error)
	return lesson.AvailableInventory
}

func (f *fixture) orderCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&orderdomain.Order{}).Count(&count).Error)
	return count
}

func TestPlaceOrderDecrementsEachLesson(t *testing.T) {
	f := newFixture(t)
	f.seedLesson(t, 1, 5)
	f.seedLesson(t, 2, 3)

	resp, err := f.svc.PlaceOrder(context.Background(), orderdomain.PlaceOrderRequest{
		LessonIDs: []int64{1, 2},
		Customer:  map[string]any{"name": "Alice", "phone": "0123456789"},
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, []int64{1, 2}, resp.LessonIDs)

	assert.Equal(t, 4, f.inventoryOf(t, 1))
	assert.Equal(t, 2, f.inventoryOf(t, 2))
	assert.Equal(t, int64(1), f.orderCount(t))
}

func TestPlaceOrderDuplicatesCountAsUnits(t *testing.T) {
	f := newFixture(t)
	f.seedLesson(t, 1, 5)

	_, err := f.svc.PlaceOrder(context.Background(), orderdomain.PlaceOrderRequest{
		LessonIDs: []int64{1, 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, f.inventoryOf(t, 1))
}

func TestPlaceOrderUnknownLessonAbortsEverything(t *testing.T) {
	f := newFixture(t)
	f.seedLesson(t, 1, 5)
	f.seedLesson(t, 2, 3)

	_, err := f.svc.PlaceOrder(context.Background(), orderdomain.PlaceOrderRequest{
		LessonIDs: []int64{1, 2, 99},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, inventory.ErrLessonNotFound)

	var perr *orderdomain.PlaceOrderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, int64(99), perr.LessonID)

	// Rolled back: nothing written, nothing decremented.
	assert.Equal(t, 5, f.inventoryOf(t, 1))
	assert.Equal(t, 3, f.inventoryOf(t, 2))
	assert.Equal(t, int64(0), f.orderCount(t))
}

func TestPlaceOrderExhaustedLessonAbortsEverything(t *testing.T) {
	f := newFixture(t)
	f.seedLesson(t, 1, 1)

	_, err := f.svc.PlaceOrder(context.Background(), orderdomain.PlaceOrderRequest{
		LessonIDs: []int64{1, 1},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, inventory.ErrLessonExhausted)

	var perr *orderdomain.PlaceOrderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, int64(1), perr.LessonID)

	assert.Equal(t, 1, f.inventoryOf(t, 1))
	assert.Equal(t, int64(0), f.orderCount(t))
}

func TestPlaceOrderEmptyOrderIsAccepted(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.PlaceOrder(context.Background(), orderdomain.PlaceOrderRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.ID)
	assert.Empty(t, resp.LessonIDs)

	assert.Equal(t, int64(1), f.orderCount(t))
}

func TestPlaceOrderLastUnitSingleWinner(t *testing.T) {
	f := newFixture(t)
	f.seedLesson(t, 1, 1)

	const contenders = 4
	results := make([]error, contenders)

	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = f.svc.PlaceOrder(context.Background(), orderdomain.PlaceOrderRequest{
				LessonIDs: []int64{1},
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, inventory.ErrLessonExhausted)
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 0, f.inventoryOf(t, 1))
	assert.Equal(t, int64(1), f.orderCount(t))
}

func TestListReturnsMostRecentFirst(t *testing.T) {
	f := newFixture(t)
	f.seedLesson(t, 1, 5)

	first, err := f.svc.PlaceOrder(context.Background(), orderdomain.PlaceOrderRequest{LessonIDs: []int64{1}})
	require.NoError(t, err)

	f.clock.Advance(time.Minute)

	second, err := f.svc.PlaceOrder(context.Background(), orderdomain.PlaceOrderRequest{LessonIDs: []int64{1}})
	require.NoError(t, err)

	list, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}
