package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fruitify/fruitify-backend/api/controllers"
	"github.com/fruitify/fruitify-backend/api/middleware"
	"github.com/fruitify/fruitify-backend/internal/auth"
	"github.com/fruitify/fruitify-backend/internal/notify/telegram"
	"github.com/fruitify/fruitify-backend/internal/orders"
	"github.com/fruitify/fruitify-backend/internal/payments"
	"github.com/fruitify/fruitify-backend/internal/products"
	"github.com/fruitify/fruitify-backend/internal/realtime"
	"github.com/fruitify/fruitify-backend/internal/users"
	"github.com/fruitify/fruitify-backend/pkg/config"
	"github.com/fruitify/fruitify-backend/pkg/db"
	"github.com/fruitify/fruitify-backend/pkg/enums"
	"github.com/fruitify/fruitify-backend/pkg/logger"
	"github.com/fruitify/fruitify-backend/pkg/metrics"
	"github.com/fruitify/fruitify-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs. cmd/api builds one and
// hands it over.
type Deps struct {
	Config           *config.Config
	Logger           *logger.Logger
	DB               db.Pinger
	Redis            *redis.Client
	Registry         *prometheus.Registry
	HTTPMetrics      *metrics.HTTPMetrics
	AuthService      auth.Service
	ProductsService  products.Service
	OrdersService    orders.Service
	PaymentsService  payments.Service
	UsersRepo        users.Repository
	TelegramNotifier *telegram.Notifier
	Hub              *realtime.Hub
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
				Post("/register", controllers.AuthRegister(deps.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).
				Post("/login", controllers.AuthLogin(deps.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, logg)).
				Get("/me", controllers.AuthProfile(deps.AuthService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.ProductsService, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.ProductsService, logg))
		})

		// Checkout accepts guests; the idempotency guard keeps
		// double-submits from charging stock twice.
		r.With(
			middleware.OptionalAuth(cfg.JWT, logg),
			middleware.Idempotency(deps.Redis, logg),
		).Post("/orders", controllers.PlaceOrder(deps.OrdersService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/orders", controllers.MyOrders(deps.OrdersService, logg))
			r.Get("/orders/{orderId}", controllers.OrderDetail(deps.OrdersService, logg))
			r.With(middleware.RequireRole(string(enums.UserRoleAdmin), logg)).
				Patch("/orders/{orderId}/status", controllers.AdminOrderStatusUpdate(deps.OrdersService, logg))
		})

		r.With(middleware.Idempotency(deps.Redis, logg)).
			Post("/payments/create-order", controllers.PaymentCreateOrder(deps.PaymentsService, logg))
		r.Post("/payments/verify", controllers.PaymentVerify(deps.PaymentsService, logg))
		r.Post("/payments/failure", controllers.PaymentFailure(deps.PaymentsService, logg))
		r.Get("/payments/status/{orderId}", controllers.PaymentStatus(deps.PaymentsService, logg))

		r.Get("/ws", controllers.Websocket(cfg.JWT, deps.Hub, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminProductCreate(deps.ProductsService, logg))
				r.Patch("/{productId}", controllers.AdminProductUpdate(deps.ProductsService, logg))
				r.Delete("/{productId}", controllers.AdminProductDelete(deps.ProductsService, logg))
				r.Route("/{productId}/variants", func(r chi.Router) {
					r.Post("/", controllers.AdminVariantCreate(deps.ProductsService, logg))
					r.Patch("/{variantId}", controllers.AdminVariantUpdate(deps.ProductsService, logg))
					r.Delete("/{variantId}", controllers.AdminVariantDelete(deps.ProductsService, logg))
				})
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminOrderList(deps.OrdersService, logg))
				r.Patch("/{orderId}/status", controllers.AdminOrderStatusUpdate(deps.OrdersService, logg))
			})

			r.Route("/telegram-logs", func(r chi.Router) {
				r.Get("/", controllers.AdminTelegramLogs(deps.TelegramNotifier, logg))
				r.Post("/test", controllers.AdminTelegramTest(deps.TelegramNotifier, logg))
			})

			r.Get("/users", controllers.AdminUserList(deps.UsersRepo, logg))
		})
	})

	return r
}
