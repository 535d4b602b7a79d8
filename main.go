package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-hub/config"
	"github.com/yeremiapane/restaurant-hub/controllers"
	"github.com/yeremiapane/restaurant-hub/database"
	"github.com/yeremiapane/restaurant-hub/kds"
	"github.com/yeremiapane/restaurant-hub/middlewares"
	"github.com/yeremiapane/restaurant-hub/repositories"
	"github.com/yeremiapane/restaurant-hub/router"
	"github.com/yeremiapane/restaurant-hub/services"
	"github.com/yeremiapane/restaurant-hub/utils"
)

// collaborators are the outbound integrations. Tests swap them for fakes.
type collaborators struct {
	mailer   services.Mailer
	images   services.ImageUploader
	google   services.GoogleAuthenticator
	payments services.PaymentService
}

func defaultCollaborators(cfg *config.Config) collaborators {
	return collaborators{
		mailer:   services.NewMailer(cfg),
		images:   services.NewCloudinaryUploader(cfg),
		google:   services.NewGoogleAuthenticator(cfg),
		payments: services.NewPaymentService(cfg),
	}
}

type app struct {
	router *gin.Engine
	hub    *kds.Hub
}

// buildApp wires repositories, services and controllers into the router.
// rdb may be nil, in which case blacklist and rate limits stay in memory.
func buildApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client, ext collaborators) *app {
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL())

	blacklist := utils.NewMemoryBlacklist()
	var limiter middlewares.Limiter = middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	if rdb != nil {
		blacklist = utils.NewRedisBlacklist(rdb)
		limiter = middlewares.NewRedisRateLimiter(rdb, "api", int(cfg.RateLimitRPS*60), time.Minute)
	}

	hub := kds.NewHub()

	restaurantRepo := repositories.NewRestaurantRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	dishRepo := repositories.NewDishRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	countryRepo := repositories.NewCountryRepository(db)

	restaurantSvc := services.NewRestaurantService(services.RestaurantServiceDeps{
		Restaurants: restaurantRepo,
		Tokens:      tokens,
		Blacklist:   blacklist,
		Mailer:      ext.mailer,
		Images:      ext.images,
		Google:      ext.google,
		BcryptCost:  cfg.BcryptCost,
		BackendURL:  cfg.BackendURL,
	})
	reservationSvc := services.NewReservationService(reservationRepo, restaurantRepo, tableRepo, ext.mailer, hub)
	dishSvc := services.NewDishService(dishRepo, restaurantRepo, ext.images)
	tableSvc := services.NewTableService(tableRepo)
	orderSvc := services.NewOrderService(orderRepo, dishRepo, hub)
	countrySvc := services.NewCountryService(countryRepo)

	ctl := router.Controllers{
		Restaurant: controllers.NewRestaurantController(restaurantSvc, controllers.CookieConfig{
			Secure:      cfg.IsProduction(),
			TTL:         cfg.JWTTTL(),
			FrontendURL: cfg.FrontendURL,
		}),
		Reservation: controllers.NewReservationController(reservationSvc),
		Dish:        controllers.NewDishController(dishSvc),
		Table:       controllers.NewTableController(tableSvc),
		Order:       controllers.NewOrderController(orderSvc),
		Country:     controllers.NewCountryController(countrySvc),
		Payment:     controllers.NewPaymentController(ext.payments),
		KDS:         controllers.NewKDSController(hub, cfg.FrontendURL),
	}

	r := router.SetupRouter(ctl, router.Options{
		Auth:          middlewares.NewAuthenticator(tokens, blacklist),
		FrontendURL:   cfg.FrontendURL,
		Production:    cfg.IsProduction(),
		Limiter:       limiter,
		StrictLimiter: middlewares.NewStrictRateLimiter(rdb),
		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})
	return &app{router: r, hub: hub}
}

func connectRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Println("Warning: .env file not found")
	}
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = connectRedis(cfg.RedisURL)
		if err != nil {
			utils.ErrorLogger.Printf("Redis unavailable, using in-memory blacklist and rate limits: %v", err)
			rdb = nil
		} else {
			defer rdb.Close()
		}
	}

	a := buildApp(cfg, db, rdb, defaultCollaborators(cfg))

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := a.router.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
