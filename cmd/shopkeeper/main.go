package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/shopkeeper/internal/clock"
	"github.com/smallbiznis/shopkeeper/internal/config"
	"github.com/smallbiznis/shopkeeper/internal/migration"
	"github.com/smallbiznis/shopkeeper/internal/product"
	"github.com/smallbiznis/shopkeeper/internal/repair"
	"github.com/smallbiznis/shopkeeper/internal/server"
	"github.com/smallbiznis/shopkeeper/internal/tenant"
	"github.com/smallbiznis/shopkeeper/pkg/db"
	"github.com/smallbiznis/shopkeeper/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		tenant.Module,
		product.Module,
		repair.Module,

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
