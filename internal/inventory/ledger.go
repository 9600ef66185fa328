package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/darsh196/learnzone/internal/clock"
	lessondomain "github.com/darsh196/learnzone/internal/lesson/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var (
	ErrLessonNotFound  = errors.New("lesson_not_found")
	ErrLessonExhausted = errors.New("lesson_exhausted")
)

// DecrementError reports which lesson a decrement failed on and why. It
// unwraps to ErrLessonNotFound or ErrLessonExhausted.
type DecrementError struct {
	LessonID int64
	Reason   error
}

func (e *DecrementError) Error() string {
	return fmt.Sprintf("lesson %d: %v", e.LessonID, e.Reason)
}

func (e *DecrementError) Unwrap() error { return e.Reason }

// Ledger owns the per-lesson inventory count. The db argument is the atomic
// scope the decrement participates in: callers inside a transaction pass the
// transaction handle, and the decrement only becomes visible on commit.
type Ledger interface {
	TryDecrement(ctx context.Context, db *gorm.DB, lessonID int64) error
	CountLowInventory(ctx context.Context, db *gorm.DB, threshold int) (int64, error)
}

type Params struct {
	fx.In

	Clock clock.Clock
}

type ledger struct {
	clock clock.Clock
}

func NewLedger(p Params) Ledger {
	return &ledger{clock: p.Clock}
}

// TryDecrement takes exactly one unit of inventory for the lesson. The
// conditional update is the concurrency guard: the row can never go below
// zero, and with one unit left only one of two contending transactions sees
// a row to update.
func (l *ledger) TryDecrement(ctx context.Context, db *gorm.DB, lessonID int64) error {
	res := db.WithContext(ctx).Exec(
		`UPDATE lessons
		 SET available_inventory = available_inventory - 1, updated_at = ?
		 WHERE id = ? AND available_inventory > 0`,
		l.clock.Now(),
		lessonID,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).
		Model(&lessondomain.Lesson{}).
		Where("id = ?", lessonID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &DecrementError{LessonID: lessonID, Reason: ErrLessonNotFound}
	}
	return &DecrementError{LessonID: lessonID, Reason: ErrLessonExhausted}
}

// CountLowInventory reports how many lessons sit at or below threshold.
func (l *ledger) CountLowInventory(ctx context.Context, db *gorm.DB, threshold int) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&lessondomain.Lesson{}).
		Where("available_inventory <= ?", threshold).
		Count(&count).Error
	return count, err
}
