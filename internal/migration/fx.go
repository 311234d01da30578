// Package migration creates the schema on startup so self-hosted installs
// work out of the box.
package migration

import (
	productdomain "github.com/smallbiznis/shopkeeper/internal/product/domain"
	repairdomain "github.com/smallbiznis/shopkeeper/internal/repair/domain"
	tenantdomain "github.com/smallbiznis/shopkeeper/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(Run),
)

func Run(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&tenantdomain.Tenant{},
		&tenantdomain.TenantDomain{},
		&tenantdomain.TenantFeatureFlags{},
		&productdomain.Product{},
		&repairdomain.RepairTicket{},
	)
}
