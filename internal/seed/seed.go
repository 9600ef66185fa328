package seed

import (
	"context"
	"errors"
	"time"

	lessondomain "github.com/darsh196/learnzone/internal/lesson/domain"
	"github.com/darsh196/learnzone/pkg/db"
	"gorm.io/gorm"
)

// defaultLessons is the bootstrap catalog. IDs are stable so rerunning the
// seed never duplicates or renumbers anything.
var defaultLessons = []lessondomain.Lesson{
	{ID: 1, Subject: "Mathematics", Location: "Hendon", Price: 100, AvailableInventory: 5, Image: "mathematics.png"},
	{ID: 2, Subject: "English", Location: "Colindale", Price: 80, AvailableInventory: 5, Image: "english.png"},
	{ID: 3, Subject: "Science", Location: "Brent Cross", Price: 90, AvailableInventory: 5, Image: "science.png"},
	{ID: 4, Subject: "Music", Location: "Golders Green", Price: 120, AvailableInventory: 5, Image: "music.png"},
	{ID: 5, Subject: "Art", Location: "Hendon", Price: 70, AvailableInventory: 5, Image: "art.png"},
	{ID: 6, Subject: "Drama", Location: "Colindale", Price: 85, AvailableInventory: 5, Image: "drama.png"},
	{ID: 7, Subject: "Chess", Location: "Brent Cross", Price: 60, AvailableInventory: 5, Image: "chess.png"},
	{ID: 8, Subject: "Coding", Location: "Golders Green", Price: 150, AvailableInventory: 5, Image: "coding.png"},
	{ID: 9, Subject: "French", Location: "Hendon", Price: 95, AvailableInventory: 5, Image: "french.png"},
	{ID: 10, Subject: "Physics", Location: "Colindale", Price: 110, AvailableInventory: 5, Image: "physics.png"},
}

// EnsureLessons inserts any missing catalog lessons. Existing rows are left
// untouched so live inventory counts survive restarts.
func EnsureLessons(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("seed database handle is required")
	}

	ctx := context.Background()
	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, lesson := range defaultLessons {
			var count int64
			if err := tx.WithContext(ctx).
				Model(&lessondomain.Lesson{}).
				Where("id = ?", lesson.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			now := time.Now().UTC()
			lesson.CreatedAt = now
			lesson.UpdatedAt = now
			if err := tx.WithContext(ctx).Create(&lesson).Error; err != nil {
				// Another replica may have seeded the same row between the
				// count and the insert.
				if db.IsDuplicateKeyErr(err) {
					continue
				}
				return err
			}
		}
		return nil
	})
}
