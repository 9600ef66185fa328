package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/darsh196/learnzone/internal/clock"
	"github.com/darsh196/learnzone/internal/config"
	"github.com/darsh196/learnzone/internal/inventory"
	"github.com/darsh196/learnzone/internal/lesson"
	"github.com/darsh196/learnzone/internal/migration"
	"github.com/darsh196/learnzone/internal/observability"
	"github.com/darsh196/learnzone/internal/order"
	"github.com/darsh196/learnzone/internal/ratelimit"
	"github.com/darsh196/learnzone/internal/server"
	"github.com/darsh196/learnzone/pkg/db"
	"github.com/darsh196/learnzone/pkg/telemetry"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		fx.Provide(telemetry.NewMetrics),
		db.Module,
		clock.Module,

		// Functional domains
		inventory.Module,
		lesson.Module,
		order.Module,
		ratelimit.Module,
		migration.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
