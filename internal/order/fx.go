package order

import (
	"github.com/darsh196/learnzone/internal/order/repository"
	"github.com/darsh196/learnzone/internal/order/service"
	"go.uber.org/fx"
)

var Module = fx.Module("order.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
