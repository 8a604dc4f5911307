package sale

import (
	"github.com/smallretail/tillpoint/internal/config"
	"github.com/smallretail/tillpoint/internal/sale/format"
	"github.com/smallretail/tillpoint/internal/sale/repository"
	"github.com/smallretail/tillpoint/internal/sale/service"
	"go.uber.org/fx"
)

func provideInvoiceGen(cfg config.Config) *format.InvoiceNumberGenerator {
	return format.NewInvoiceNumberGenerator(cfg.InvoicePrefix)
}

var Module = fx.Module("sale.service",
	fx.Provide(repository.Provide),
	fx.Provide(provideInvoiceGen),
	fx.Provide(service.New),
)
