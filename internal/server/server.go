package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallretail/tillpoint/internal/cart"
	"github.com/smallretail/tillpoint/internal/catalog"
	catalogdomain "github.com/smallretail/tillpoint/internal/catalog/domain"
	"github.com/smallretail/tillpoint/internal/config"
	obslogger "github.com/smallretail/tillpoint/internal/observability/logger"
	obstracing "github.com/smallretail/tillpoint/internal/observability/tracing"
	"github.com/smallretail/tillpoint/internal/providers/pdf"
	"github.com/smallretail/tillpoint/internal/ratelimit"
	"github.com/smallretail/tillpoint/internal/sale"
	saledomain "github.com/smallretail/tillpoint/internal/sale/domain"
	"github.com/smallretail/tillpoint/internal/session"
	"github.com/smallretail/tillpoint/internal/user"
	userdomain "github.com/smallretail/tillpoint/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	catalog.Module,
	cart.Module,
	sale.Module,
	user.Module,
	session.Module,
	ratelimit.Module,
	pdf.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log))
	r.Use(obstracing.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	catalogSvc   catalogdomain.Service
	saleSvc      saledomain.Service
	userSvc      userdomain.Service
	sessions     *session.Manager
	carts        *cart.SessionStore
	loginLimiter *ratelimit.LoginLimiter
	receipts     pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	CatalogSvc   catalogdomain.Service
	SaleSvc      saledomain.Service
	UserSvc      userdomain.Service
	Sessions     *session.Manager
	Carts        *cart.SessionStore
	LoginLimiter *ratelimit.LoginLimiter `optional:"true"`
	Receipts     pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		catalogSvc:   p.CatalogSvc,
		saleSvc:      p.SaleSvc,
		userSvc:      p.UserSvc,
		sessions:     p.Sessions,
		carts:        p.Carts,
		loginLimiter: p.LoginLimiter,
		receipts:     p.Receipts,
	}

	svc.registerAuthRoutes()
	svc.registerCatalogRoutes()
	svc.registerCartRoutes()
	svc.registerSaleRoutes()
	svc.registerUserRoutes()

	return svc
}

func (s *Server) registerAuthRoutes() {
	s.engine.POST("/v1/auth/login", s.Login)

	authed := s.engine.Group("/v1/auth", s.AuthRequired())
	authed.POST("/logout", s.Logout)
	authed.GET("/me", s.Me)
}

func (s *Server) registerCatalogRoutes() {
	v1 := s.engine.Group("/v1", s.AuthRequired())

	v1.GET("/catalog", s.CatalogSnapshot)

	v1.GET("/products", s.ListProducts)
	v1.GET("/products/low-stock", s.ListLowStockProducts)
	v1.GET("/products/barcode/:barcode", s.GetProductByBarcode)
	v1.GET("/products/:id", s.GetProductByID)

	admin := s.engine.Group("/v1", s.AuthRequired(), s.RequireRole(userdomain.RoleAdmin))
	admin.POST("/products", s.CreateProduct)
	admin.PATCH("/products/:id", s.UpdateProduct)
	admin.DELETE("/products/:id", s.ArchiveProduct)
	admin.POST("/categories", s.CreateCategory)
}

func (s *Server) registerCartRoutes() {
	g := s.engine.Group("/v1/cart", s.AuthRequired())
	g.GET("", s.ViewCart)
	g.DELETE("", s.AbandonCart)
	g.POST("/items", s.AddCartItem)
	g.PUT("/items/:productId", s.SetCartItemQuantity)
	g.DELETE("/items/:productId", s.RemoveCartItem)
	g.POST("/items/:productId/increment", s.IncrementCartItem)
	g.POST("/items/:productId/decrement", s.DecrementCartItem)
	g.POST("/items/:productId/discount", s.SetCartItemDiscount)
	g.POST("/discount", s.SetCartDiscount)
	g.POST("/tax", s.SetCartTax)
}

func (s *Server) registerSaleRoutes() {
	v1 := s.engine.Group("/v1", s.AuthRequired())
	v1.POST("/checkout", s.Checkout)
	v1.GET("/sales", s.ListSales)
	v1.GET("/sales/summary", s.DailySaleSummary)
	v1.GET("/sales/:id", s.GetSale)
	v1.GET("/sales/:id/receipt", s.DownloadReceipt)

	admin := s.engine.Group("/v1", s.AuthRequired(), s.RequireRole(userdomain.RoleAdmin))
	admin.POST("/sales/:id/void", s.VoidSale)
	admin.POST("/sales/:id/refund", s.RefundSale)
}

func (s *Server) registerUserRoutes() {
	admin := s.engine.Group("/v1", s.AuthRequired(), s.RequireRole(userdomain.RoleAdmin))
	admin.POST("/users", s.CreateUser)
}
