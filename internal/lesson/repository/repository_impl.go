package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/darsh196/learnzone/internal/lesson/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Lesson, error) {
	var items []domain.Lesson
	err := db.WithContext(ctx).Raw(
		`SELECT id, subject, location, price, available_inventory, image, created_at, updated_at
		 FROM lessons ORDER BY id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Lesson, error) {
	var l domain.Lesson
	err := db.WithContext(ctx).Raw(
		`SELECT id, subject, location, price, available_inventory, image, created_at, updated_at
		 FROM lessons WHERE id = ?`,
		id,
	).Scan(&l).Error
	if err != nil {
		return nil, err
	}
	if l.ID == 0 {
		return nil, nil
	}
	return &l, nil
}

// Search matches the keyword as a case-insensitive substring of subject or
// location; a numeric keyword additionally matches price and inventory exactly.
func (r *repo) Search(ctx context.Context, db *gorm.DB, keyword string) ([]domain.Lesson, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return r.FindAll(ctx, db)
	}

	like := "%" + strings.ToLower(keyword) + "%"
	query := `SELECT id, subject, location, price, available_inventory, image, created_at, updated_at
		 FROM lessons
		 WHERE LOWER(subject) LIKE ? OR LOWER(location) LIKE ?`
	args := []any{like, like}

	if n, err := strconv.ParseInt(keyword, 10, 64); err == nil {
		query += ` OR price = ? OR available_inventory = ?`
		args = append(args, n, n)
	}
	query += ` ORDER BY id ASC`

	var items []domain.Lesson
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, lesson *domain.Lesson) error {
	if lesson == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE lessons
		 SET subject = ?, location = ?, price = ?, available_inventory = ?, image = ?, updated_at = ?
		 WHERE id = ?`,
		lesson.Subject,
		lesson.Location,
		lesson.Price,
		lesson.AvailableInventory,
		lesson.Image,
		lesson.UpdatedAt,
		lesson.ID,
	).Error
}
