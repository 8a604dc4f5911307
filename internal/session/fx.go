package session

import (
	"time"

	"github.com/smallretail/tillpoint/internal/clock"
	"github.com/smallretail/tillpoint/internal/config"
	"go.uber.org/fx"
)

func provideManager(cfg config.Config, clk clock.Clock) *Manager {
	return NewManager(clk, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
}

var Module = fx.Module("session",
	fx.Provide(provideManager),
)
