package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avilesdev/storefront-backend/api/controllers"
	"github.com/avilesdev/storefront-backend/api/middleware"
	"github.com/avilesdev/storefront-backend/internal/cart"
	checkoutsvc "github.com/avilesdev/storefront-backend/internal/checkout"
	"github.com/avilesdev/storefront-backend/internal/orders"
	"github.com/avilesdev/storefront-backend/internal/paymentmethods"
	"github.com/avilesdev/storefront-backend/internal/users"
	webhooksquare "github.com/avilesdev/storefront-backend/internal/webhooks/square"
	"github.com/avilesdev/storefront-backend/internal/wishlist"
	"github.com/avilesdev/storefront-backend/pkg/config"
	"github.com/avilesdev/storefront-backend/pkg/db"
	"github.com/avilesdev/storefront-backend/pkg/logger"
	"github.com/avilesdev/storefront-backend/pkg/metrics"
	pkgredis "github.com/avilesdev/storefront-backend/pkg/redis"
	"github.com/avilesdev/storefront-backend/pkg/square"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Cfg            *config.Config
	Logg           *logger.Logger
	DB             db.Pinger
	Redis          *pkgredis.Client
	SquareClient   *square.Client
	HTTPMetrics    *metrics.HTTPMetrics
	CartService    cart.Service
	CheckoutSvc    checkoutsvc.Service
	Drafts         *checkoutsvc.DraftService
	OrdersService  orders.Service
	UsersService   users.Service
	PaymentMethods paymentmethods.Service
	Wishlist       wishlist.Service
	WebhookService *webhooksquare.Service
	WebhookURL     string
}

func NewRouter(deps Deps) http.Handler {
	cfg, logg := deps.Cfg, deps.Logg

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/webhooks", func(r chi.Router) {
		r.Post("/square", controllers.SquareWebhook(deps.SquareClient, deps.WebhookService, deps.WebhookURL, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.Idempotency(deps.Redis, logg),
		)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartService, logg))
			r.Post("/add", controllers.CartAdd(deps.CartService, logg))
			r.Post("/add/bulk", controllers.CartBulkAdd(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
			r.Put("/{itemId}", controllers.CartUpdateItem(deps.CartService, logg))
			r.Delete("/{itemId}", controllers.CartRemoveItem(deps.CartService, logg))
		})

		r.Route("/checkout/draft", func(r chi.Router) {
			r.Get("/", controllers.CheckoutDraftGet(deps.Drafts, logg))
			r.Put("/", controllers.CheckoutDraftPut(deps.Drafts, logg))
			r.Delete("/", controllers.CheckoutDraftDelete(deps.Drafts, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.OrdersService, logg))
			r.Post("/", controllers.CheckoutPlaceCodOrder(deps.CheckoutSvc, logg))
			r.Post("/create-session", controllers.CheckoutCreateSession(deps.CheckoutSvc, logg))
			r.Get("/session/{sessionId}", controllers.OrderBySession(deps.OrdersService, logg))
		})

		r.Route("/users/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(deps.UsersService, logg))
			r.Get("/payment-methods", controllers.PaymentMethodsList(deps.PaymentMethods, logg))
			r.Put("/shipping-address", controllers.ShippingAddressUpdate(deps.UsersService, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(deps.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(deps.Wishlist, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(deps.Wishlist, logg))
		})
	})

	return r
}
