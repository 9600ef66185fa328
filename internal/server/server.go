package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/darsh196/learnzone/internal/config"
	lessondomain "github.com/darsh196/learnzone/internal/lesson/domain"
	"github.com/darsh196/learnzone/internal/observability"
	obsmiddleware "github.com/darsh196/learnzone/internal/observability/logger"
	obsmetrics "github.com/darsh196/learnzone/internal/observability/metrics"
	obstracing "github.com/darsh196/learnzone/internal/observability/tracing"
	orderdomain "github.com/darsh196/learnzone/internal/order/domain"
	"github.com/darsh196/learnzone/internal/ratelimit"
	"github.com/darsh196/learnzone/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *telemetry.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(telemetry.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *telemetry.Metrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	db         *gorm.DB
	lessonSvc  lessondomain.Service
	orderSvc   orderdomain.Service
	limiter    *ratelimit.TokenBucket
	obsMetrics *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	DB         *gorm.DB
	LessonSvc  lessondomain.Service
	OrderSvc   orderdomain.Service
	Limiter    *ratelimit.TokenBucket `optional:"true"`
	ObsMetrics *obsmetrics.Metrics    `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		db:         p.DB,
		lessonSvc:  p.LessonSvc,
		orderSvc:   p.OrderSvc,
		limiter:    p.Limiter,
		obsMetrics: p.ObsMetrics,
	}

	svc.registerCatalogRoutes()
	svc.registerOrderRoutes()
	svc.registerImageRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerCatalogRoutes() {
	s.engine.GET("/lessons", s.ListLessons)
	s.engine.GET("/lessons/:id", s.GetLessonByID)
	s.engine.PUT("/lessons/:id", s.UpdateLesson)
	s.engine.GET("/search", s.SearchLessons)
}

func (s *Server) registerOrderRoutes() {
	s.engine.POST("/orders",
		ratelimit.OrderLimiter(s.limiter, s.cfg, s.obsMetrics),
		s.PlaceOrder,
	)
	s.engine.GET("/orders", s.ListOrders)
}

func (s *Server) registerImageRoutes() {
	s.engine.GET("/images/:imageName", s.GetImage)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		// static assets
		if fileExists(s.cfg.PublicDir, c.Request.URL.Path) {
			c.File(filepath.Join(s.cfg.PublicDir, filepath.Clean(c.Request.URL.Path)))
			return
		}

		// SPA fallback
		c.File(filepath.Join(s.cfg.PublicDir, "index.html"))
	})
}

func fileExists(publicDir, reqPath string) bool {
	clean := filepath.Clean(reqPath)

	// prevent path traversal
	if clean == "." || clean == "/" || clean == ".." {
		return false
	}

	fullPath := filepath.Join(publicDir, clean)

	info, err := os.Stat(fullPath)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
