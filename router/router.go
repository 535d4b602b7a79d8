package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-hub/controllers"
	"github.com/yeremiapane/restaurant-hub/middlewares"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// Controllers groups the HTTP handlers mounted under /api.
type Controllers struct {
	Restaurant  *controllers.RestaurantController
	Reservation *controllers.ReservationController
	Dish        *controllers.DishController
	Table       *controllers.TableController
	Order       *controllers.OrderController
	Country     *controllers.CountryController
	Payment     *controllers.PaymentController
	KDS         *controllers.KDSController
}

type Options struct {
	Auth          *middlewares.Authenticator
	FrontendURL   string
	Production    bool
	Limiter       middlewares.Limiter
	StrictLimiter middlewares.Limiter
	// Ping reports whether the database is reachable.
	Ping func(ctx context.Context) error
}

func SetupRouter(ctl Controllers, opts Options) *gin.Engine {
	r := gin.New()

	r.Use(middlewares.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(opts.Production))
	r.Use(middlewares.CORSMiddlewares(opts.FrontendURL))
	if opts.Limiter != nil {
		r.Use(middlewares.RateLimit(opts.Limiter))
	}
	r.Use(middlewares.ErrorHandler())

	r.GET("/health", func(c *gin.Context) {
		if opts.Ping != nil {
			if err := opts.Ping(c.Request.Context()); err != nil {
				utils.ErrorLogger.Printf("Health check failed: %v", err)
				utils.RespondError(c, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		utils.RespondJSON(c, http.StatusOK, "ok", nil)
	})

	requireAuth := opts.Auth.RequireAuth()
	strict := func(c *gin.Context) { c.Next() }
	if opts.StrictLimiter != nil {
		strict = middlewares.RateLimit(opts.StrictLimiter)
	}

	api := r.Group("/api")

	// ----------------------------------------------------------------
	//                      RESTAURANT
	// ----------------------------------------------------------------
	rest := api.Group("/restaurant")
	{
		rest.POST("/register", strict, ctl.Restaurant.Register)
		rest.POST("/login", strict, ctl.Restaurant.Login)
		rest.POST("/logout", ctl.Restaurant.Logout)
		rest.POST("/chg-password", requireAuth, ctl.Restaurant.ChangePassword)
		rest.POST("/rec-password", strict, ctl.Restaurant.RecoverPassword)
		rest.POST("/has-password", ctl.Restaurant.HasPassword)
		rest.GET("/verify-email", ctl.Restaurant.VerifyEmail)
		rest.GET("/auth-status", requireAuth, ctl.Restaurant.AuthStatus)
		rest.GET("/auth/google", ctl.Restaurant.GoogleLogin)
		rest.GET("/auth/google/callback", ctl.Restaurant.GoogleCallback)

		rest.GET("", ctl.Restaurant.List)
		rest.GET("/:id", ctl.Restaurant.GetByID)

		owner := middlewares.RequireOwner("id")
		rest.PATCH("/:id", requireAuth, owner, ctl.Restaurant.Update)
		rest.DELETE("/:id", requireAuth, owner, ctl.Restaurant.Delete)
		rest.POST("/:id/image", requireAuth, owner, ctl.Restaurant.UploadImage)
	}

	// ----------------------------------------------------------------
	//                      RESERVATIONS
	// ----------------------------------------------------------------
	reserve := api.Group("/reserve")
	{
		reserve.GET("", requireAuth, ctl.Reservation.List)
		reserve.POST("", ctl.Reservation.Create)
		reserve.GET("/capacity/:restaurantId", ctl.Reservation.CheckCapacity)
		reserve.GET("/restaurant/:id", requireAuth, middlewares.RequireOwner("id"), ctl.Reservation.ListByRestaurant)
		reserve.GET("/:id", ctl.Reservation.GetByID)
		reserve.POST("/:id/table/:tableId", requireAuth, ctl.Reservation.AssignTable)
		reserve.PATCH("/:id/cancel", ctl.Reservation.Cancel)
	}

	// ----------------------------------------------------------------
	//                      DISHES
	// ----------------------------------------------------------------
	dish := api.Group("/dish")
	{
		dish.GET("/restaurant/:id", ctl.Dish.ListByRestaurant)
		dish.GET("/:id", ctl.Dish.GetByID)
		dish.POST("", requireAuth, ctl.Dish.Create)
		dish.PATCH("/:id", requireAuth, ctl.Dish.Update)
		dish.DELETE("/:id", requireAuth, ctl.Dish.Delete)
		dish.POST("/:id/image", requireAuth, ctl.Dish.UploadImage)
	}

	// ----------------------------------------------------------------
	//                      TABLES
	// ----------------------------------------------------------------
	table := api.Group("/table", requireAuth)
	{
		table.GET("/restaurant/:id", middlewares.RequireOwner("id"), ctl.Table.GetRestaurantTables)
		table.GET("/:id", ctl.Table.GetTable)
		table.POST("", ctl.Table.CreateTable)
		table.PATCH("/:id", ctl.Table.UpdateTable)
		table.DELETE("/:id", ctl.Table.DeleteTable)
	}

	// ----------------------------------------------------------------
	//                      ORDERS
	// ----------------------------------------------------------------
	order := api.Group("/order", requireAuth)
	{
		order.GET("", ctl.Order.GetAllOrders)
		order.GET("/restaurant/:id", middlewares.RequireOwner("id"), ctl.Order.GetRestaurantOrders)
		order.POST("", ctl.Order.CreateOrder)
		order.GET("/:id", ctl.Order.GetOrderByID)
		order.PATCH("/:id", ctl.Order.UpdateOrderStatus)
		order.PUT("/:id/platillo/:dishId", ctl.Order.UpdateLineStatus)
		order.PATCH("/:id/cancel", ctl.Order.CancelOrder)
	}

	// ----------------------------------------------------------------
	//                      REFERENCE DATA
	// ----------------------------------------------------------------
	api.GET("/countries", ctl.Country.List)
	api.POST("/countries", requireAuth, ctl.Country.Create)
	api.GET("/categories/restaurant", controllers.RestaurantCategories)
	api.GET("/categories/dish", controllers.DishCategories)

	api.POST("/payment/create_preference", ctl.Payment.CreatePreference)

	// Kitchen display websocket
	r.GET("/ws/kitchen", opts.Auth.WebSocketAuth(), ctl.KDS.KDSHandler)

	return r
}
