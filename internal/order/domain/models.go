package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Order is a persisted purchase. It references lessons by identifier only;
// existence and availability are checked inside the placement transaction,
// never enforced afterwards. Rows are insert-only.
type Order struct {
	ID        int64                      `json:"id" gorm:"primaryKey"`
	LessonIDs datatypes.JSONSlice[int64] `json:"lessonIDs" gorm:"column:lesson_ids"`
	Customer  datatypes.JSONMap          `json:"customer,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time                  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }
