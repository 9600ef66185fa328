package service

import (
	"context"
	"strings"

	"github.com/darsh196/learnzone/internal/clock"
	"github.com/darsh196/learnzone/internal/config"
	"github.com/darsh196/learnzone/internal/lesson/domain"
	"github.com/darsh196/learnzone/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Catalog *config.CatalogConfigHolder
	Repo    domain.Repository
	Metrics *metrics.Metrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	catalog *config.CatalogConfigHolder
	repo    domain.Repository
	metrics *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("lesson.service"),
		clock:   p.Clock,
		catalog: p.Catalog,
		repo:    p.Repo,
		metrics: p.Metrics,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return s.toResponses(items), nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Response, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Search(ctx context.Context, keyword string) ([]domain.Response, error) {
	items, err := s.repo.Search(ctx, s.db, strings.TrimSpace(keyword))
	if err != nil {
		return nil, err
	}
	s.metrics.RecordLessonSearch(ctx)
	return s.toResponses(items), nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	item, err := s.repo.FindByID(ctx, s.db, req.ID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if req.Subject != nil {
		subject := strings.TrimSpace(*req.Subject)
		if subject == "" {
			return nil, domain.ErrInvalidSubject
		}
		item.Subject = subject
	}
	if req.Location != nil {
		location := strings.TrimSpace(*req.Location)
		if location == "" {
			return nil, domain.ErrInvalidLocation
		}
		item.Location = location
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, domain.ErrInvalidPrice
		}
		item.Price = *req.Price
	}
	if req.AvailableInventory != nil {
		if *req.AvailableInventory < 0 {
			return nil, domain.ErrInvalidInventory
		}
		item.AvailableInventory = *req.AvailableInventory
	}
	if req.Image != nil {
		item.Image = strings.TrimSpace(*req.Image)
	}

	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	s.log.Info("lesson updated",
		zap.Int64("lesson_id", item.ID),
		zap.Int("available_inventory", item.AvailableInventory),
	)

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) toResponses(items []domain.Lesson) []domain.Response {
	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, s.toResponse(&item))
	}
	return resp
}

func (s *Service) toResponse(l *domain.Lesson) domain.Response {
	return domain.Response{
		ID:                 l.ID,
		Subject:            l.Subject,
		Location:           l.Location,
		Price:              l.Price,
		Currency:           s.catalog.Get().Currency,
		AvailableInventory: l.AvailableInventory,
		Image:              l.Image,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}
