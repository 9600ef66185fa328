package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id int64) (*Response, error)
	Search(ctx context.Context, keyword string) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
}

// UpdateRequest applies only the fields the caller provided.
type UpdateRequest struct {
	ID                 int64
	Subject            *string
	Location           *string
	Price              *int64
	AvailableInventory *int
	Image              *string
}

type Response struct {
	ID                 int64     `json:"id"`
	Subject            string    `json:"subject"`
	Location           string    `json:"location"`
	Price              int64     `json:"price"`
	Currency           string    `json:"currency"`
	AvailableInventory int       `json:"availableInventory"`
	Image              string    `json:"image,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

var (
	ErrNotFound         = errors.New("lesson_not_found")
	ErrInvalidSubject   = errors.New("invalid_subject")
	ErrInvalidLocation  = errors.New("invalid_location")
	ErrInvalidPrice     = errors.New("invalid_price")
	ErrInvalidInventory = errors.New("invalid_inventory")
)
