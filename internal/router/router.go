package router

import (
	"log/slog"
	"net/http"

	"github.com/cafesang/storefront/internal/config"
	"github.com/cafesang/storefront/internal/content"
	"github.com/cafesang/storefront/internal/handler"
	"github.com/cafesang/storefront/internal/order"
	"github.com/cafesang/storefront/internal/ratelimit"
	"github.com/cafesang/storefront/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Menu    handler.MenuReader
	Orders  order.Recorder
	Hub     *ws.Hub
	Pages   handler.Renderer
	Site    content.Site
	Limiter *ratelimit.Limiter
}

// New creates a Chi router with all application routes wired up.
// Order and contact submissions go through the rate limiter when one is
// configured.
func New(cfg *config.Config, d Deps) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	var notifier handler.OrderNotifier
	if d.Hub != nil {
		notifier = d.Hub
	}

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Pages
	pageHandler := handler.NewPageHandler(d.Menu, d.Orders, notifier, d.Pages, d.Site, cfg.ReceiptSecret)
	r.Group(func(r chi.Router) {
		if d.Limiter != nil {
			r.Use(postsOnly(d.Limiter.Middleware))
		}
		pageHandler.RegisterRoutes(r)
	})

	themeHandler := handler.NewThemeHandler()
	r.Post("/theme", themeHandler.Set)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
			MaxAge:           300, // 5 minutes
		}))

		menuHandler := handler.NewMenuHandler(d.Menu)
		menuHandler.RegisterRoutes(r)

		orderHandler := handler.NewOrderHandler(d.Menu, d.Orders, notifier, cfg.ReceiptSecret)
		r.Group(func(r chi.Router) {
			if d.Limiter != nil {
				r.Use(d.Limiter.Middleware)
			}
			orderHandler.RegisterRoutes(r)
		})
	})

	// Live menu session
	if d.Hub != nil {
		r.Handle("/ws/menu", ws.NewServer(d.Hub, ws.Deps{
			Menu:          d.Menu,
			Orders:        d.Orders,
			Notifier:      d.Hub,
			ReceiptSecret: cfg.ReceiptSecret,
		}, cfg.AllowedOrigins))
	}

	slog.Debug("router initialized")
	return r
}

// postsOnly applies mw to POST requests and lets every other method through.
func postsOnly(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
