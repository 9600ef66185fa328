package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/darsh196/learnzone/internal/clock"
	"github.com/darsh196/learnzone/internal/config"
	"github.com/darsh196/learnzone/internal/inventory"
	"github.com/darsh196/learnzone/internal/observability/logger"
	"github.com/darsh196/learnzone/internal/observability/metrics"
	"github.com/darsh196/learnzone/internal/order/domain"
	"github.com/darsh196/learnzone/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	GenID     *snowflake.Node
	Catalog   *config.CatalogConfigHolder
	Ledger    inventory.Ledger
	Repo      domain.Repository
	Metrics   *metrics.Metrics   `optional:"true"`
	Telemetry *telemetry.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	genID     *snowflake.Node
	catalog   *config.CatalogConfigHolder
	ledger    inventory.Ledger
	repo      domain.Repository
	metrics   *metrics.Metrics
	telemetry *telemetry.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("order.service"),
		clock:     p.Clock,
		genID:     p.GenID,
		catalog:   p.Catalog,
		ledger:    p.Ledger,
		repo:      p.Repo,
		metrics:   p.Metrics,
		telemetry: p.Telemetry,
	}
}

// PlaceOrder commits one order and one inventory decrement per requested
// lesson in a single transaction. Any failing decrement aborts the whole
// order and restores every count already taken. An order with no lessons
// is accepted as-is and touches no inventory.
func (s *Service) PlaceOrder(ctx context.Context, req domain.PlaceOrderRequest) (*domain.Response, error) {
	log := logger.WithContext(ctx, s.log)

	if max := s.catalog.Get().MaxLessonsPerOrder; max > 0 && len(req.LessonIDs) > max {
		log.Warn("order exceeds configured lesson cap",
			zap.Int("units", len(req.LessonIDs)),
			zap.Int("max_lessons_per_order", max),
		)
	}

	order := &domain.Order{
		ID:        s.genID.Generate().Int64(),
		LessonIDs: datatypes.NewJSONSlice(append([]int64{}, req.LessonIDs...)),
		CreatedAt: s.clock.Now(),
	}
	if len(req.Customer) > 0 {
		order.Customer = datatypes.JSONMap(req.Customer)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, lessonID := range req.LessonIDs {
			if err := s.ledger.TryDecrement(ctx, tx, lessonID); err != nil {
				return err
			}
		}
		return s.repo.Create(ctx, tx, order)
	})
	if err != nil {
		perr := asPlaceOrderError(err)
		reason := failureReason(err)
		s.metrics.RecordOrderFailed(ctx, reason)
		s.telemetry.ObserveOrderFailed(reason)
		log.Warn("order rejected",
			zap.Int64("order_id", order.ID),
			zap.Int64("lesson_id", perr.LessonID),
			zap.String("reason", reason),
			zap.Error(err),
		)
		return nil, perr
	}

	s.metrics.RecordOrderPlaced(ctx, int64(len(req.LessonIDs)))
	s.telemetry.ObserveOrderPlaced(len(req.LessonIDs))
	log.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int("units", len(req.LessonIDs)),
	)

	s.reportLowInventory(ctx, log)

	resp := s.toResponse(order)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, s.toResponse(&item))
	}
	return resp, nil
}

// reportLowInventory runs outside the order transaction; a failure here
// never affects an already committed order.
func (s *Service) reportLowInventory(ctx context.Context, log *zap.Logger) {
	threshold := s.catalog.Get().LowInventoryThreshold
	count, err := s.ledger.CountLowInventory(ctx, s.db, threshold)
	if err != nil {
		log.Warn("low inventory check failed", zap.Error(err))
		return
	}
	s.telemetry.SetLowInventoryLessons(int(count))
	if count > 0 {
		log.Warn("lessons running low on inventory",
			zap.Int64("count", count),
			zap.Int("threshold", threshold),
		)
	}
}

func (s *Service) toResponse(o *domain.Order) domain.Response {
	return domain.Response{
		ID:        snowflake.ID(o.ID).String(),
		LessonIDs: append([]int64{}, o.LessonIDs...),
		Customer:  o.Customer,
		CreatedAt: o.CreatedAt,
	}
}

func asPlaceOrderError(err error) *domain.PlaceOrderError {
	var derr *inventory.DecrementError
	if errors.As(err, &derr) {
		return &domain.PlaceOrderError{LessonID: derr.LessonID, Err: derr.Reason}
	}
	return &domain.PlaceOrderError{Err: err}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, inventory.ErrLessonNotFound):
		return "not_found"
	case errors.Is(err, inventory.ErrLessonExhausted):
		return "exhausted"
	default:
		return "storage"
	}
}
