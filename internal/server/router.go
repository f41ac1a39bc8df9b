// Package server assembles the gin engine: middleware, routes and static files.
package server

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Priyanshusingh0818/GORUS/config"
	"github.com/Priyanshusingh0818/GORUS/internal/handler"
	"github.com/Priyanshusingh0818/GORUS/internal/middleware"
	"github.com/Priyanshusingh0818/GORUS/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Config    *config.Config
	Auth      *service.AuthService
	Catalog   *service.CatalogService
	Orders    *service.OrderService
	Payments  *service.PaymentService
	Analytics *service.AnalyticsService
	Limiter   *middleware.RateLimiter
	Log       *slog.Logger
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		d.Log.Error("Panic recovered", "path", c.Request.URL.Path, "panic", recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, middleware.ErrorBody("Server error"))
	}))
	r.Use(middleware.Logger(d.Log.With("component", "http")))
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(corsConfig(d.Config.Server.ClientURL)))

	r.Static("/uploads", d.Config.Server.UploadDir)
	if dir := d.Config.Server.StaticDir; dir != "" {
		r.Use(static.Serve("/", static.LocalFile(dir, false)))
	}

	api := r.Group("/api")
	if d.Limiter != nil {
		api.Use(d.Limiter.Middleware())
	}
	api.GET("/health", handler.Health)
	api.GET("/store-info", handler.NewPublicHandler(d.Config.Store).GetStoreInfo)

	requireAuth := middleware.RequireAuth(d.Auth)
	requireAdmin := middleware.RequireAdmin()

	authHandler := handler.NewAuthHandler(d.Auth, d.Log)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.PUT("/profile", requireAuth, authHandler.UpdateProfile)
		authRoutes.PUT("/change-password", requireAuth, authHandler.ChangePassword)
	}

	productHandler := handler.NewProductHandler(d.Catalog, d.Log)
	productRoutes := api.Group("/products")
	{
		productRoutes.GET("", productHandler.ListProducts)
		productRoutes.GET("/:id", productHandler.GetProduct)
	}

	orderHandler := handler.NewOrderHandler(d.Orders, d.Log)
	orderRoutes := api.Group("/orders")
	orderRoutes.Use(requireAuth)
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("/my-orders", orderHandler.MyOrders)
		orderRoutes.GET("", requireAdmin, orderHandler.ListOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrder)
		orderRoutes.PUT("/:id/status", requireAdmin, orderHandler.UpdateStatus)
		orderRoutes.PUT("/:id/payment-status", requireAdmin, orderHandler.UpdatePaymentStatus)
		orderRoutes.PUT("/:id/cancel", orderHandler.CancelOrder)
	}

	paymentHandler := handler.NewPaymentHandler(d.Payments, d.Log)
	paymentRoutes := api.Group("/payments")
	paymentRoutes.Use(requireAuth)
	{
		paymentRoutes.POST("/confirm-upi", paymentHandler.ConfirmUPI)
		paymentRoutes.POST("/verify-payment", paymentHandler.VerifyPayment)
		paymentRoutes.GET("/status/:orderId", paymentHandler.Status)
	}

	adminHandler := handler.NewAdminHandler(d.Auth, d.Analytics, d.Log)
	inventoryHandler := handler.NewInventoryHandler(d.Catalog, d.Log)
	adminRoutes := api.Group("/admin")
	adminRoutes.Use(requireAuth, requireAdmin)
	{
		adminRoutes.GET("/users", adminHandler.ListUsers)
		adminRoutes.GET("/analytics/dashboard", adminHandler.GetDashboardStats)
		adminRoutes.GET("/analytics/sales", adminHandler.GetSalesReport)
		adminRoutes.GET("/inventory/low-stock", inventoryHandler.GetLowStockAlerts)

		adminRoutes.GET("/products", productHandler.ListProducts)
		adminRoutes.GET("/products/:id", productHandler.GetProduct)
		adminRoutes.POST("/products", productHandler.CreateProduct)
		adminRoutes.PUT("/products/:id", productHandler.UpdateProduct)
		adminRoutes.DELETE("/products/:id", productHandler.DeleteProduct)
		adminRoutes.POST("/products/:id/image", productHandler.UploadImage)
		adminRoutes.POST("/products/:id/stock", inventoryHandler.AddStock)

		adminRoutes.GET("/orders", orderHandler.ListOrders)
		adminRoutes.GET("/orders/:id", orderHandler.GetOrder)
		adminRoutes.PUT("/orders/:id/status", orderHandler.UpdateStatus)
		adminRoutes.PUT("/orders/:id/payment-status", orderHandler.UpdatePaymentStatus)
		adminRoutes.PUT("/orders/:id/cancel", orderHandler.CancelOrder)
	}

	r.NoRoute(spaFallback(d.Config.Server.StaticDir))
	return r
}

func corsConfig(clientURL string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if clientURL == "" || clientURL == "*" {
		cfg.AllowAllOrigins = true
		return cfg
	}
	for _, origin := range strings.Split(clientURL, ",") {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}
	cfg.AllowCredentials = true
	return cfg
}

// spaFallback answers client-side routes with the storefront's index.html;
// existing files were already served by the static middleware. Without a
// static directory, or for /api paths, it answers a JSON 404.
func spaFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if dir == "" || strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, middleware.ErrorBody("Not found"))
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
