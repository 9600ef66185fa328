package lesson

import (
	"github.com/darsh196/learnzone/internal/lesson/repository"
	"github.com/darsh196/learnzone/internal/lesson/service"
	"go.uber.org/fx"
)

var Module = fx.Module("lesson.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
