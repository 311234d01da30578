package repair

import (
	"github.com/smallbiznis/shopkeeper/internal/repair/repository"
	"github.com/smallbiznis/shopkeeper/internal/repair/service"
	"go.uber.org/fx"
)

var Module = fx.Module("repair.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
