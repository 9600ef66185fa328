package domain

import "time"

// Lesson is a bookable catalog entry. IDs are assigned by the seed data,
// not generated, so they stay stable across environments.
type Lesson struct {
	ID                 int64     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Subject            string    `json:"subject" gorm:"type:text;not null"`
	Location           string    `json:"location" gorm:"type:text;not null"`
	Price              int64     `json:"price" gorm:"not null"`
	AvailableInventory int       `json:"availableInventory" gorm:"column:available_inventory;not null;default:0"`
	Image              string    `json:"image,omitempty" gorm:"type:text"`
	CreatedAt          time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt          time.Time `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Lesson) TableName() string { return "lessons" }
