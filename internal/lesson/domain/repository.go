package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindAll(ctx context.Context, db *gorm.DB) ([]Lesson, error)
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Lesson, error)
	Search(ctx context.Context, db *gorm.DB, keyword string) ([]Lesson, error)
	Update(ctx context.Context, db *gorm.DB, lesson *Lesson) error
}
