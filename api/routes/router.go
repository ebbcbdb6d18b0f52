package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harvesthub-dev/harvesthub-backend/api/controllers"
	"github.com/harvesthub-dev/harvesthub-backend/api/middleware"
	authsvc "github.com/harvesthub-dev/harvesthub-backend/internal/auth"
	cartsvc "github.com/harvesthub-dev/harvesthub-backend/internal/cart"
	catalogsvc "github.com/harvesthub-dev/harvesthub-backend/internal/catalog"
	checkoutsvc "github.com/harvesthub-dev/harvesthub-backend/internal/checkout"
	orderssvc "github.com/harvesthub-dev/harvesthub-backend/internal/orders"
	reviewssvc "github.com/harvesthub-dev/harvesthub-backend/internal/reviews"
	userssvc "github.com/harvesthub-dev/harvesthub-backend/internal/users"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/auth/session"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/config"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/enums"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/logger"
	"github.com/harvesthub-dev/harvesthub-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient controllers.Pinger,
	redisClient *redis.Client,
	sessionManager *session.Manager,
	authService authsvc.Service,
	usersService userssvc.Service,
	catalogService catalogsvc.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	ordersService orderssvc.Service,
	reviewsService reviewssvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbClient,
			"redis":    redisClient,
		}))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/request-verification", controllers.AuthRequestVerification(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/resend-verification", controllers.AuthResendVerification(authService, logg))
		r.Post("/confirm-verification", controllers.AuthConfirmVerification(authService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).
			Post("/register", controllers.AuthRegister(authService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/refresh", controllers.AuthRefresh(authService, logg))
		r.Post("/logout", controllers.AuthLogout(authService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))

		r.Route("/v1/users/me", func(r chi.Router) {
			r.Get("/", controllers.UserProfile(usersService, logg))
			r.Patch("/", controllers.UserUpdateProfile(usersService, logg))
			r.Post("/password", controllers.UserChangePassword(usersService, logg))
		})

		r.Route("/v1/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(catalogService, logg))
			r.With(middleware.RequireRole(logg, enums.UserRoleAdmin)).
				Post("/", controllers.CategoryCreate(catalogService, logg))
		})

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Get("/{productId}", controllers.ProductGet(catalogService, logg))
			r.Get("/slug/{slug}", controllers.ProductGetBySlug(catalogService, logg))
			r.Get("/{productId}/reviews", controllers.ReviewListByProduct(reviewsService, logg))
			r.Post("/{productId}/reviews", controllers.ReviewCreate(reviewsService, logg))
		})

		r.Route("/v1/reviews", func(r chi.Router) {
			r.Patch("/{reviewId}", controllers.ReviewUpdate(reviewsService, logg))
			r.Delete("/{reviewId}", controllers.ReviewDelete(reviewsService, logg))
		})

		r.Route("/v1/vendor", func(r chi.Router) {
			r.Use(middleware.RequireRole(logg, enums.UserRoleFarmer, enums.UserRoleAdmin))

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductListMine(catalogService, logg))
				r.Post("/", controllers.ProductCreate(catalogService, logg))
				r.Patch("/{productId}", controllers.ProductUpdate(catalogService, logg))
				r.Delete("/{productId}", controllers.ProductDelete(catalogService, logg))
				r.Post("/{productId}/variations", controllers.VariationCreate(catalogService, logg))
			})
			r.Route("/variations", func(r chi.Router) {
				r.Patch("/{variationId}", controllers.VariationUpdate(catalogService, logg))
				r.Delete("/{variationId}", controllers.VariationDelete(catalogService, logg))
				r.Post("/{variationId}/images", controllers.VariationImageAdd(catalogService, logg))
			})
			r.Route("/images", func(r chi.Router) {
				r.Post("/{imageId}/main", controllers.VariationImageSetMain(catalogService, logg))
				r.Delete("/{imageId}", controllers.VariationImageDelete(catalogService, logg))
			})
		})

		r.Route("/v1/cart", func(r chi.Router) {
			r.Get("/", controllers.CartList(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Route("/v1/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutConfirm(checkoutService, logg))
			r.Post("/summary", controllers.CheckoutSummary(checkoutService, logg))
		})

		r.Route("/v1/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderHistory(ordersService, logg))
			r.Get("/{orderId}", controllers.OrderGet(ordersService, logg))
		})
	})

	return r
}
