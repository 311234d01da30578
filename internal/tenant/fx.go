package tenant

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/shopkeeper/internal/clock"
	"github.com/smallbiznis/shopkeeper/internal/config"
	"github.com/smallbiznis/shopkeeper/internal/tenant/domain"
	"github.com/smallbiznis/shopkeeper/internal/tenant/repository"
	"github.com/smallbiznis/shopkeeper/internal/tenant/resolver"
	"github.com/smallbiznis/shopkeeper/internal/tenant/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("tenant.service",
	fx.Provide(repository.New),
	fx.Provide(func(repo domain.Repository) domain.Directory { return repo }),
	fx.Provide(newResolverMetrics),
	fx.Provide(newCache),
	fx.Provide(resolver.New),
	fx.Provide(service.New),
)

func newResolverMetrics() *resolver.Metrics {
	return resolver.NewMetrics(prometheus.DefaultRegisterer)
}

func newCache(cfg config.Config, dir domain.Directory, clk clock.Clock, log *zap.Logger, metrics *resolver.Metrics) *resolver.Cache {
	return resolver.NewCache(dir, resolver.Config{
		TTL:          cfg.ResolverTTL,
		FetchTimeout: cfg.ResolverFetchTimeout,
	}, clk, log, metrics)
}
