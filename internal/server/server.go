package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/shopkeeper/internal/config"
	featuredomain "github.com/smallbiznis/shopkeeper/internal/feature/domain"
	productdomain "github.com/smallbiznis/shopkeeper/internal/product/domain"
	repairdomain "github.com/smallbiznis/shopkeeper/internal/repair/domain"
	tenantdomain "github.com/smallbiznis/shopkeeper/internal/tenant/domain"
	"github.com/smallbiznis/shopkeeper/internal/tenant/resolver"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(newHTTPMetrics),
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(run),
)

func newHTTPMetrics() *HTTPMetrics {
	return NewHTTPMetrics(prometheus.DefaultRegisterer)
}

func NewEngine(httpMetrics *HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine     *gin.Engine
	cfg        config.Config
	log        *zap.Logger
	resolver   *resolver.Resolver
	tenantSvc  tenantdomain.Service
	productSvc productdomain.Service
	repairSvc  repairdomain.Service
}

type ServerParams struct {
	fx.In

	Gin        *gin.Engine
	Cfg        config.Config
	Log        *zap.Logger
	Resolver   *resolver.Resolver
	TenantSvc  tenantdomain.Service
	ProductSvc productdomain.Service
	RepairSvc  repairdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:     p.Gin,
		cfg:        p.Cfg,
		log:        p.Log.Named("http.server"),
		resolver:   p.Resolver,
		tenantSvc:  p.TenantSvc,
		productSvc: p.ProductSvc,
		repairSvc:  p.RepairSvc,
	}
}

// gatedRoute binds one storefront route to the feature it requires. The
// table is plain data so the mapping is testable without reflection; a route
// declares at most one key and relies on the parent chain for the rest.
type gatedRoute struct {
	method  string
	path    string
	feature featuredomain.Key
	handler gin.HandlerFunc
}

func (s *Server) storefrontRoutes() []gatedRoute {
	return []gatedRoute{
		{http.MethodGet, "/products", featuredomain.KeyEcommerce, s.ListProducts},
		{http.MethodGet, "/products/:id", featuredomain.KeyEcommerce, s.GetProduct},
		{http.MethodPost, "/repairs", featuredomain.KeyRepairs, s.CreateRepairTicket},
		{http.MethodGet, "/repairs", featuredomain.KeyRepairs, s.ListRepairTickets},
	}
}

func (s *Server) RegisterRoutes() {
	storefront := s.engine.Group("/api/storefront")
	storefront.Use(s.TenantContext())
	storefront.GET("/features", s.GetFeatureFlags)
	for _, route := range s.storefrontRoutes() {
		storefront.Handle(route.method, route.path, s.RequireFeature(route.feature), route.handler)
	}

	admin := s.engine.Group("/api/admin")
	admin.Use(PrincipalExtractor(), OwnerOnly())
	admin.POST("/tenants", s.CreateTenant)
	admin.GET("/tenants/:id", s.GetTenant)
	admin.POST("/tenants/:id/domains", s.BindTenantDomain)
	admin.PATCH("/tenants/:id/status", s.UpdateTenantStatus)
	admin.PUT("/tenants/:id/features", s.UpdateTenantFlags)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.ListenAddr))
			go func() {
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
