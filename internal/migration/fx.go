package migration

import (
	"github.com/darsh196/learnzone/internal/config"
	lessondomain "github.com/darsh196/learnzone/internal/lesson/domain"
	orderdomain "github.com/darsh196/learnzone/internal/order/domain"
	"github.com/darsh196/learnzone/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := conn.AutoMigrate(&lessondomain.Lesson{}, &orderdomain.Order{}); err != nil {
				return err
			}
		}

		return seed.EnsureLessons(conn)
	}),
)
