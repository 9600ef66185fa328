package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// CatalogConfig holds runtime-tunable catalog settings.
type CatalogConfig struct {
	Currency              string `mapstructure:"currency"`
	LowInventoryThreshold int    `mapstructure:"lowInventoryThreshold"`
	MaxLessonsPerOrder    int    `mapstructure:"maxLessonsPerOrder"`
}

func DefaultCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Currency:              "GBP",
		LowInventoryThreshold: 2,
		MaxLessonsPerOrder:    20,
	}
}

// CatalogConfigHolder serves the current catalog config and hot-reloads it
// when the backing file changes.
type CatalogConfigHolder struct {
	current atomic.Value // holds CatalogConfig
}

func NewCatalogConfigHolder() (*CatalogConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("catalog")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/learnzone")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LEARNZONE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultCatalogConfig()
		v.SetDefault("catalog.currency", defaults.Currency)
		v.SetDefault("catalog.lowInventoryThreshold", defaults.LowInventoryThreshold)
		v.SetDefault("catalog.maxLessonsPerOrder", defaults.MaxLessonsPerOrder)
	}

	var cfg CatalogConfig
	if err := v.UnmarshalKey("catalog", &cfg); err != nil {
		return nil, err
	}
	if err := validateCatalogConfig(cfg); err != nil {
		return nil, err
	}

	holder := &CatalogConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated CatalogConfig
		if err := v.UnmarshalKey("catalog", &updated); err != nil {
			log.Printf("[catalog-config] reload failed: %v", err)
			return
		}
		if err := validateCatalogConfig(updated); err != nil {
			log.Printf("[catalog-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[catalog-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticCatalogConfigHolder wraps a fixed config, bypassing the file
// watcher. Meant for tests.
func NewStaticCatalogConfigHolder(cfg CatalogConfig) *CatalogConfigHolder {
	holder := &CatalogConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *CatalogConfigHolder) Get() CatalogConfig {
	return h.current.Load().(CatalogConfig)
}

func validateCatalogConfig(cfg CatalogConfig) error {
	if strings.TrimSpace(cfg.Currency) == "" {
		return errors.New("catalog.currency cannot be empty")
	}
	if cfg.LowInventoryThreshold < 0 {
		return errors.New("catalog.lowInventoryThreshold cannot be negative")
	}
	return nil
}
