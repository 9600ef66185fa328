package domain

import (
	"context"
	"fmt"
	"time"
)

type Service interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
}

// PlaceOrderRequest carries one lesson identifier per unit purchased;
// duplicates are meaningful. Customer is opaque caller metadata.
type PlaceOrderRequest struct {
	LessonIDs []int64
	Customer  map[string]any
}

type Response struct {
	ID        string         `json:"id"`
	LessonIDs []int64        `json:"lessonIDs"`
	Customer  map[string]any `json:"customer,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// PlaceOrderError is the single error surfaced by PlaceOrder. LessonID is
// the first failing identifier when the failure is attributable to one,
// zero otherwise. It unwraps to the underlying cause so callers can match
// inventory sentinels with errors.Is.
type PlaceOrderError struct {
	LessonID int64
	Err      error
}

func (e *PlaceOrderError) Error() string {
	if e.LessonID != 0 {
		return fmt.Sprintf("place order: lesson %d: %v", e.LessonID, e.Err)
	}
	return fmt.Sprintf("place order: %v", e.Err)
}

func (e *PlaceOrderError) Unwrap() error { return e.Err }
