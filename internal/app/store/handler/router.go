package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"carshine/pkg/logger"
	"carshine/pkg/metrics"
)

// Handlers groups everything the router wires up.
type Handlers struct {
	Catalog     *CatalogHandler
	User        *UserHandler
	Order       *OrderHandler
	Review      *ReviewHandler
	Dashboard   *DashboardHandler
	Reservation *ReservationHandler
}

// SetupRoutes builds the full route table: the public storefront, the
// authenticated customer surface and the admin back office.
func SetupRoutes(h *Handlers, authMiddleware *AuthMiddleware, uploadDir string) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("store"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "store",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Uploaded product images are served as static files.
	router.Static("/uploads", uploadDir)

	auth := router.Group("/auth")
	{
		auth.POST("/register", h.User.Register)
		auth.POST("/login", h.User.Login)

		protected := auth.Group("")
		protected.Use(authMiddleware.Authenticate())
		{
			protected.GET("/me", h.User.GetMe)
		}
	}

	// Public storefront: browsing needs no account.
	products := router.Group("/products")
	{
		products.GET("", h.Catalog.GetAllProducts)
		products.GET("/:id", h.Catalog.GetProduct)
		products.GET("/:id/reviews", h.Review.GetReviewsByProduct)

		products.POST("/:id/reviews", authMiddleware.Authenticate(), h.Review.CreateReview)
	}

	router.GET("/categories", h.Catalog.GetAllCategories)

	reviews := router.Group("/reviews")
	reviews.Use(authMiddleware.Authenticate())
	{
		reviews.DELETE("/:id", h.Review.DeleteReview)
	}

	orders := router.Group("/orders")
	orders.Use(authMiddleware.Authenticate())
	{
		orders.POST("", h.Order.CreateOrder)
		orders.GET("", h.Order.GetMyOrders)
		orders.GET("/:id", h.Order.GetOrder)
		orders.GET("/:id/items", h.Order.GetOrderItems)
		orders.POST("/:id/cancel", h.Order.CancelOrder)
	}

	// Legacy path the web frontend still calls for order items.
	router.GET("/order-items/:id/items", authMiddleware.Authenticate(), h.Order.GetOrderItems)

	payments := router.Group("/payments")
	{
		// Checkout is the same operation as POST /orders; both paths stay
		// live for the two frontend generations.
		payments.POST("/checkout", authMiddleware.Authenticate(), h.Order.CreateOrder)

		// The payment provider calls back without a user token.
		payments.POST("/webhook", h.Order.PaymentWebhook)
	}

	// Reservation bookings come straight from the public widget; the
	// listing carries client contact details, so only admins see it.
	router.POST("/reservations", h.Reservation.CreateReservation)
	router.GET("/reservations", authMiddleware.Authenticate(), authMiddleware.RequireAdmin(), h.Reservation.ListReservations)

	// Admin back office.
	admin := router.Group("/admin")
	admin.Use(authMiddleware.Authenticate())
	admin.Use(authMiddleware.RequireAdmin())
	{
		admin.POST("/products", h.Catalog.CreateProduct)
		admin.PUT("/products/:id", h.Catalog.UpdateProduct)
		admin.DELETE("/products/:id", h.Catalog.DeleteProduct)
		admin.POST("/products/:id/image", h.Catalog.UploadProductImage)

		admin.POST("/categories", h.Catalog.CreateCategory)
		admin.DELETE("/categories/:id", h.Catalog.DeleteCategory)

		admin.GET("/orders", h.Order.GetAllOrders)
		admin.PUT("/orders/:id/status", h.Order.UpdateOrderStatus)

		admin.GET("/users", h.User.GetAllUsers)
		admin.GET("/users/:id", h.User.GetUserByID)
		admin.PUT("/users/:id", h.User.UpdateUser)
		admin.DELETE("/users/:id", h.User.DeleteUser)

		admin.GET("/dashboard/stats", h.Dashboard.GetStats)
		admin.GET("/dashboard/revenue-chart", h.Dashboard.GetRevenueChart)
		admin.GET("/dashboard/recent-orders", h.Dashboard.GetRecentOrders)
	}

	return router
}
