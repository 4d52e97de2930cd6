package routes

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"velora_back_end/internal/handlers/admin"
	"velora_back_end/internal/handlers/order"
	"velora_back_end/internal/handlers/product"
	"velora_back_end/internal/handlers/user"
	"velora_back_end/internal/middleware"
)

func RegisterRoutes(r *gin.Engine) {
	r.Use(corsMiddleware())

	api := r.Group("/api")

	// Catalogue public
	api.GET("/products", product.GetAllProducts)
	api.GET("/products/search", product.SearchProducts)
	api.GET("/products/:id", product.GetProduct)
	api.GET("/categories", product.GetAllCategories)
	api.GET("/categories/:id/products", product.GetProductsByCategory)

	// Comptes
	api.POST("/auth/register", user.Register)
	api.POST("/auth/login", middleware.LoginRateLimit(), user.Login)
	api.GET("/auth/logout", user.Logout)
	api.GET("/auth/:provider", user.BeginAuth)
	api.GET("/auth/:provider/callback", user.CallbackAuth)

	// Checkout invité : pas de compte, pas de token
	api.POST("/orders/guest", middleware.CheckoutRateLimit(), order.GuestCheckout)

	// Espace client
	auth := api.Group("")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/me", user.Me)

		auth.GET("/cart", user.GetCart)
		auth.POST("/cart", user.AddToCart)
		auth.PUT("/cart/:productId", user.UpdateCartItem)
		auth.DELETE("/cart/:productId", user.RemoveFromCart)
		auth.DELETE("/cart", user.ClearCart)
		auth.GET("/cart/ws", user.CartWebSocket)

		auth.POST("/orders", middleware.CheckoutRateLimit(), order.Checkout)
		auth.GET("/orders", user.GetMyOrders)
		auth.GET("/orders/:id", user.GetOrderByID)
	}

	// Back office
	adm := api.Group("/admin")
	adm.Use(middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adm.POST("/products", product.CreateProduct)
		adm.PUT("/products/:id", product.UpdateProduct)
		adm.DELETE("/products/:id", product.DeleteProduct)
		adm.POST("/products/:id/image", product.UploadProductImage)

		adm.POST("/categories", product.CreateCategory)
		adm.PUT("/categories/:id", product.UpdateCategory)
		adm.DELETE("/categories/:id", product.DeleteCategory)

		adm.PUT("/inventory/:id/stock", product.UpdateStock)
		adm.GET("/inventory/:id/movements", product.GetStockMovements)
		adm.GET("/inventory/alerts", product.GetStockAlerts)
		adm.PUT("/inventory/alerts/:id/resolve", product.ResolveStockAlert)
		adm.GET("/inventory/stats", product.GetInventoryStats)

		adm.GET("/orders", admin.ListOrders)
		adm.GET("/orders/:id", admin.GetOrder)
		adm.PUT("/orders/:id", admin.UpdateOrderStatus)

		adm.GET("/dashboard", admin.GetDashboardStats)
		adm.GET("/users", admin.ListUsers)
	}

	// Gestion des rôles : super admin uniquement
	super := api.Group("/admin")
	super.Use(middleware.AuthRequired(), middleware.RequireSuperAdmin)
	{
		super.PUT("/users/:id/role", admin.UpdateUserRole)
	}
}

func corsMiddleware() gin.HandlerFunc {
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}

	return cors.New(cors.Config{
		AllowOrigins:     strings.Split(origins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
