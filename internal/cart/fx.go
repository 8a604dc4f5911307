package cart

import (
	catalogdomain "github.com/smallretail/tillpoint/internal/catalog/domain"
	"github.com/smallretail/tillpoint/internal/config"
	"go.uber.org/fx"
)

func provideSessionStore(cfg config.Config, catalogSvc catalogdomain.Service) *SessionStore {
	return NewSessionStore(catalogSvc, cfg.DefaultTaxPercent)
}

var Module = fx.Module("cart.session",
	fx.Provide(provideSessionStore),
)
