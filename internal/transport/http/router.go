package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/codekart/codekart/internal/handlers"
	"github.com/codekart/codekart/internal/handlers/order"
	auth "github.com/codekart/codekart/internal/middleware/auth"
)

type Deps struct {
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	SearchHandler   *handlers.SearchHandler
	SettingsHandler *handlers.SettingsHandler
	OrderHandler    *order.Handler
	Tokens          *auth.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	api.POST("/auth/register", d.AuthHandler.Register)
	api.POST("/auth/login", d.AuthHandler.Login)
	api.POST("/auth/logout", d.AuthHandler.Logout)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/featured", d.ProductHandler.GetFeaturedProducts)
	products.GET("/categories", d.ProductHandler.GetCategories)
	products.GET("/techstacks", d.ProductHandler.GetTechStacks)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, d.Tokens.RequireAdmin)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, d.Tokens.RequireAdmin)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.Tokens.RequireAdmin)

	api.GET("/search", d.SearchHandler.Search)

	settings := api.Group("/settings")
	settings.GET("", d.SettingsHandler.GetSettings)
	settings.GET("/upi-qr", d.SettingsHandler.GetUpiQr)
	settings.GET("/:key", d.SettingsHandler.GetSetting)
	settings.POST("", d.SettingsHandler.UpsertSetting, d.Tokens.RequireAdmin)
	settings.DELETE("/:key", d.SettingsHandler.DeleteSetting, d.Tokens.RequireAdmin)

	orders := api.Group("/orders")
	orders.POST("", d.OrderHandler.CreateOrder, d.Tokens.OptionalUser)
	orders.POST("/create-checkout-session", d.OrderHandler.CreateCheckoutSession, d.Tokens.OptionalUser)
	orders.POST("/confirm-payment", d.OrderHandler.ConfirmPayment)
	orders.POST("/:id/payment", d.OrderHandler.UploadPaymentScreenshot, d.Tokens.RequireLogin)
	orders.GET("/my", d.OrderHandler.GetMyOrders, d.Tokens.RequireLogin)
	orders.GET("/admin/all", d.OrderHandler.GetAllOrders, d.Tokens.RequireAdmin)
	orders.GET("/admin/stats", d.OrderHandler.GetOrderStats, d.Tokens.RequireAdmin)
	orders.GET("/:id", d.OrderHandler.GetOrder, d.Tokens.RequireLogin)
	orders.PUT("/:id/deliver", d.OrderHandler.DeliverOrder, d.Tokens.RequireAdmin)
	orders.PUT("/:id/status", d.OrderHandler.UpdateOrderStatus, d.Tokens.RequireAdmin)
}
