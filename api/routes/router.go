package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/osegura/ventapos-backend/api/controllers"
	"github.com/osegura/ventapos-backend/api/middleware"
	internalauth "github.com/osegura/ventapos-backend/internal/auth"
	"github.com/osegura/ventapos-backend/internal/roles"
	"github.com/osegura/ventapos-backend/internal/sales"
	"github.com/osegura/ventapos-backend/internal/users"
	"github.com/osegura/ventapos-backend/pkg/config"
	"github.com/osegura/ventapos-backend/pkg/db"
	"github.com/osegura/ventapos-backend/pkg/logger"
	"github.com/osegura/ventapos-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	AuthService internalauth.Service
	SalesSvc    sales.Service
	RolesRepo   *roles.Repository
	UsersRepo   *users.Repository
	Gatherer    prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.RateLimit.LoginWindow,
		cfg.RateLimit.LoginIPLimit,
		cfg.RateLimit.LoginUsernameLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Redis, logg))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
	})

	// One role resolver per authenticated request; guards below share it.
	newResolver := func(userID uint) middleware.RoleResolver {
		return roles.NewCache(deps.RolesRepo, userID)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, newResolver, logg))

		r.Route("/orders", func(r chi.Router) {
			r.With(middleware.RequireRoles(logg, "view order", "admin", "vendedor")).
				Get("/{orderID}", controllers.GetOrder(deps.SalesSvc, logg))
			r.With(middleware.RequireRoles(logg, "post sale lines", "admin", "vendedor")).
				Post("/{orderID}/sales", controllers.PostSaleLines(deps.SalesSvc, logg))
		})

		r.Route("/users/{userID}/roles", func(r chi.Router) {
			r.Use(middleware.RequireRoles(logg, "administer roles", "admin"))
			r.Get("/", controllers.ListUserRoles(deps.RolesRepo, deps.UsersRepo, logg))
			r.Post("/", controllers.GrantUserRole(deps.RolesRepo, deps.UsersRepo, logg))
			r.Delete("/{role}", controllers.RevokeUserRole(deps.RolesRepo, deps.UsersRepo, logg))
		})
	})

	return r
}
