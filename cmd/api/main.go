package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/avilesdev/storefront-backend/api/routes"
	"github.com/avilesdev/storefront-backend/internal/cart"
	"github.com/avilesdev/storefront-backend/internal/catalog"
	"github.com/avilesdev/storefront-backend/internal/checkout"
	"github.com/avilesdev/storefront-backend/internal/orders"
	"github.com/avilesdev/storefront-backend/internal/paymentmethods"
	"github.com/avilesdev/storefront-backend/internal/users"
	webhooksquare "github.com/avilesdev/storefront-backend/internal/webhooks/square"
	"github.com/avilesdev/storefront-backend/internal/wishlist"
	"github.com/avilesdev/storefront-backend/pkg/config"
	"github.com/avilesdev/storefront-backend/pkg/db"
	"github.com/avilesdev/storefront-backend/pkg/logger"
	"github.com/avilesdev/storefront-backend/pkg/metrics"
	"github.com/avilesdev/storefront-backend/pkg/migrate"
	"github.com/avilesdev/storefront-backend/pkg/redis"
	"github.com/avilesdev/storefront-backend/pkg/square"
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

	squareClient, err := square.NewClient(context.Background(), cfg.Square, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap square client", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	userRepo := users.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	methodRepo := paymentmethods.NewRepository(dbClient.DB())
	wishlistRepo := wishlist.NewRepository(dbClient.DB())

	cartService, err := cart.NewService(cartRepo, dbClient, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	methodsService, err := paymentmethods.NewService(methodRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment methods service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlistRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	draftService, err := checkout.NewDraftService(redisClient, cfg.Checkout.DraftTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create draft service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(
		cartService,
		cartRepo,
		orderRepo,
		userRepo,
		methodsService,
		squareClient,
		draftService,
		dbClient,
		cfg.Checkout,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	webhookService, err := webhooksquare.NewService(orderRepo, cartRepo, draftService, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Cfg:            cfg,
			Logg:           logg,
			DB:             dbClient,
			Redis:          redisClient,
			SquareClient:   squareClient,
			HTTPMetrics:    metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
			CartService:    cartService,
			CheckoutSvc:    checkoutService,
			Drafts:         draftService,
			OrdersService:  ordersService,
			UsersService:   usersService,
			PaymentMethods: methodsService,
			Wishlist:       wishlistService,
			WebhookService: webhookService,
			WebhookURL:     cfg.Square.WebhookURL,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
