package user

import (
	"github.com/smallretail/tillpoint/internal/user/repository"
	"github.com/smallretail/tillpoint/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
