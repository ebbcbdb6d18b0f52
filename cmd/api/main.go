package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/harvesthub-dev/harvesthub-backend/api/routes"
	authsvc "github.com/harvesthub-dev/harvesthub-backend/internal/auth"
	cartsvc "github.com/harvesthub-dev/harvesthub-backend/internal/cart"
	catalogsvc "github.com/harvesthub-dev/harvesthub-backend/internal/catalog"
	checkoutsvc "github.com/harvesthub-dev/harvesthub-backend/internal/checkout"
	orderssvc "github.com/harvesthub-dev/harvesthub-backend/internal/orders"
	reviewssvc "github.com/harvesthub-dev/harvesthub-backend/internal/reviews"
	userssvc "github.com/harvesthub-dev/harvesthub-backend/internal/users"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/auth/session"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/config"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/db"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/logger"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/migrate"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := userssvc.NewUserRepository(dbClient.DB())

	authService, err := authsvc.NewService(
		userRepo,
		authsvc.NewVerifiedEmailRepository(dbClient.DB()),
		redisClient,
		authsvc.NewLogMailer(logg),
		sessionManager,
		dbClient,
		cfg.JWT,
		cfg.Password,
		cfg.Verification,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := userssvc.NewService(userRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	productRepo := catalogsvc.NewProductRepository(dbClient.DB())
	variationRepo := catalogsvc.NewVariationRepository(dbClient.DB())
	catalogService, err := catalogsvc.NewService(
		catalogsvc.NewCategoryRepository(dbClient.DB()),
		productRepo,
		variationRepo,
		catalogsvc.NewVariationImageRepository(dbClient.DB()),
		dbClient,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartRepo := cartsvc.NewRepository(dbClient.DB())
	cartService, err := cartsvc.NewService(cartRepo, variationRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(
		cartRepo,
		checkoutsvc.NewVariationStore(dbClient.DB()),
		checkoutsvc.NewOrderWriter(dbClient.DB()),
		dbClient,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orderssvc.NewService(orderssvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	reviewsService, err := reviewssvc.NewService(reviewssvc.NewRepository(dbClient.DB()), productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			sessionManager,
			authService,
			usersService,
			catalogService,
			cartService,
			checkoutService,
			ordersService,
			reviewsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
