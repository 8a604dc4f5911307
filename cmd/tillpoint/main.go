package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallretail/tillpoint/internal/clock"
	"github.com/smallretail/tillpoint/internal/config"
	"github.com/smallretail/tillpoint/internal/migration"
	"github.com/smallretail/tillpoint/internal/observability"
	"github.com/smallretail/tillpoint/internal/server"
	"github.com/smallretail/tillpoint/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
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
