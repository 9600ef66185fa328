package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, order *Order) error
	FindAll(ctx context.Context, db *gorm.DB) ([]Order, error)
}
