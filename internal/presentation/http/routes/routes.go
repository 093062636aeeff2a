package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/superpos/terminal-api/internal/config"
	"github.com/superpos/terminal-api/internal/presentation/http/handler"
	"github.com/superpos/terminal-api/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Sales    *handler.SalesHandler
	Client   *handler.ClientHandler
	Settings *handler.SettingsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg *config.Config
	Log *zap.Logger
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		rateLimiter := middleware.NewClientRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		v1.Use(rateLimiter.Middleware())

		// Settings
		v1.GET("/settings", h.Settings.Get)

		// Card terminals
		v1.GET("/terminals", h.Checkout.Terminals)

		registerProductRoutes(v1, h)
		registerCartRoutes(v1, h)
		registerCheckoutRoutes(v1, h)
		registerSalesRoutes(v1, h)
		registerClientRoutes(v1, h)
	}

	return router
}

func registerProductRoutes(v1 *gin.RouterGroup, h *Handlers) {
	products := v1.Group("/products")
	{
		products.GET("", h.Catalog.List)
		products.GET("/smart-search", h.Catalog.SmartSearch)
		products.GET("/low-stock", h.Catalog.GetLowStock)
		products.GET("/:id", h.Catalog.Get)
	}
}

func registerCartRoutes(v1 *gin.RouterGroup, h *Handlers) {
	cart := v1.Group("/cart")
	{
		cart.GET("", h.Cart.Get)
		cart.POST("/items", h.Cart.AddItem)
		cart.PATCH("/items/:product_id", h.Cart.UpdateItem)
		cart.DELETE("/items/:product_id", h.Cart.RemoveItem)
	}
}

func registerCheckoutRoutes(v1 *gin.RouterGroup, h *Handlers) {
	checkout := v1.Group("/checkout")
	{
		checkout.GET("", h.Checkout.Get)
		checkout.POST("", h.Checkout.Initiate)
		checkout.POST("/method", h.Checkout.SelectMethod)
		checkout.POST("/amount", h.Checkout.ConfirmAmount)
		checkout.POST("/back", h.Checkout.Back)
		checkout.POST("/card/type", h.Checkout.SelectCardType)
		checkout.POST("/card/terminal", h.Checkout.SelectTerminal)
		checkout.POST("/card/offline", h.Checkout.EnterOffline)
		checkout.POST("/card/offline/confirm", h.Checkout.ConfirmOffline)
		checkout.POST("/pix/cancel", h.Checkout.CancelPix)
		checkout.POST("/abandon", h.Checkout.Abandon)
		checkout.POST("/reset", h.Checkout.Reset)

		checkout.POST("/fiscal", h.Checkout.EnterFiscal)
		checkout.POST("/fiscal/client", h.Checkout.SelectFiscalClient)
		checkout.POST("/fiscal/quick-add", h.Checkout.QuickAddFiscalClient)
		checkout.POST("/fiscal/transmit", h.Checkout.TransmitFiscal)
		checkout.POST("/fiscal/close", h.Checkout.CloseFiscal)

		checkout.POST("/contact", h.Checkout.StartContact)
		checkout.POST("/contact/send", h.Checkout.SendContact)
		checkout.POST("/contact/cancel", h.Checkout.CancelContact)
	}
}

func registerSalesRoutes(v1 *gin.RouterGroup, h *Handlers) {
	sales := v1.Group("/sales")
	{
		sales.GET("", h.Sales.List)
		sales.GET("/:id", h.Sales.Get)
	}

	reports := v1.Group("/reports")
	{
		reports.GET("/summary", h.Sales.Summary)
	}
}

func registerClientRoutes(v1 *gin.RouterGroup, h *Handlers) {
	clients := v1.Group("/clients")
	{
		clients.GET("", h.Client.List)
		clients.GET("/:id", h.Client.Get)
		clients.POST("", h.Client.Create)
	}
}
