package migration

import (
	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallretail/tillpoint/internal/catalog/domain"
	"github.com/smallretail/tillpoint/internal/config"
	saledomain "github.com/smallretail/tillpoint/internal/sale/domain"
	"github.com/smallretail/tillpoint/internal/seed"
	userdomain "github.com/smallretail/tillpoint/internal/user/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, node *snowflake.Node, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite/mysql installs rely on gorm's schema sync.
			if err := conn.AutoMigrate(
				&catalogdomain.Category{},
				&catalogdomain.Product{},
				&userdomain.User{},
				&saledomain.Sale{},
				&saledomain.SaleItem{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureAdminUser(conn, node, cfg)
	}),
)
