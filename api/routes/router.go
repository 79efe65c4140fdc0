package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pawhaven/petshop-backend/api/controllers"
	"github.com/pawhaven/petshop-backend/api/middleware"
	"github.com/pawhaven/petshop-backend/pkg/auth/session"
	"github.com/pawhaven/petshop-backend/pkg/config"
	"github.com/pawhaven/petshop-backend/pkg/logger"
	"github.com/pawhaven/petshop-backend/pkg/metrics"
	"github.com/pawhaven/petshop-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// Services bundles everything the HTTP surface depends on.
type Services struct {
	Auth       controllers.AuthService
	PetCatalog controllers.PetCatalogService
	PetAdmin   controllers.PetAdminService
	Cart       controllers.CartService
	Wishlist   controllers.WishlistService
	Orders     controllers.OrderService
	OrderAdmin controllers.OrderAdminService
	UserAdmin  controllers.UserAdminService
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	sessions sessionManager,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
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

	readyDeps := map[string]controllers.Pinger{"database": dbP}
	if redisClient != nil {
		readyDeps["redis"] = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyDeps))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svcs.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	// The catalog is browsable without an account.
	r.Route("/api/v1/pets", func(r chi.Router) {
		r.Get("/", controllers.PetsList(svcs.PetCatalog, logg))
		r.Get("/{petId}", controllers.PetsGet(svcs.PetCatalog, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svcs.Cart, logg))
			r.Put("/items/{petId}", controllers.CartUpdateItem(svcs.Cart, logg))
			r.Delete("/items/{petId}", controllers.CartRemoveItem(svcs.Cart, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(svcs.Wishlist, logg))
			r.Post("/items", controllers.WishlistAddItem(svcs.Wishlist, logg))
			r.Delete("/items/{petId}", controllers.WishlistRemoveItem(svcs.Wishlist, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrdersCheckout(svcs.Orders, logg))
			r.Get("/", controllers.OrdersList(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrdersGet(svcs.Orders, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.RequireRole("admin", logg))

		r.Route("/pets", func(r chi.Router) {
			r.Post("/", controllers.AdminPetsCreate(svcs.PetAdmin, logg))
			r.Put("/{petId}", controllers.AdminPetsUpdate(svcs.PetAdmin, logg))
			r.Delete("/{petId}", controllers.AdminPetsDelete(svcs.PetAdmin, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUsersList(svcs.UserAdmin, logg))
			r.Get("/{userId}", controllers.AdminUsersGet(svcs.UserAdmin, logg))
			r.Put("/{userId}", controllers.AdminUsersUpdate(svcs.UserAdmin, logg))
			r.Put("/{userId}/role", controllers.AdminUsersUpdateRole(svcs.UserAdmin, logg))
			r.Delete("/{userId}", controllers.AdminUsersDelete(svcs.UserAdmin, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(svcs.OrderAdmin, logg))
			r.Get("/{orderId}", controllers.AdminOrdersGet(svcs.OrderAdmin, logg))
			r.Put("/{orderId}/status", controllers.AdminOrdersSetStatus(svcs.OrderAdmin, logg))
		})
	})

	return r
}
