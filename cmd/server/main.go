// Command server runs the Café Sáng storefront: server-rendered pages, a
// JSON menu API, and a live WebSocket session for the menu page.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cafesang/storefront/internal/config"
	"github.com/cafesang/storefront/internal/content"
	"github.com/cafesang/storefront/internal/logging"
	"github.com/cafesang/storefront/internal/menu"
	"github.com/cafesang/storefront/internal/menuapi"
	"github.com/cafesang/storefront/internal/ratelimit"
	"github.com/cafesang/storefront/internal/router"
	"github.com/cafesang/storefront/internal/store"
	"github.com/cafesang/storefront/internal/web"
	"github.com/cafesang/storefront/internal/ws"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "storefront: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orders, closeStore, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeStore()

	client, err := menuapi.New(cfg.MenuAPIURL,
		menuapi.WithTimeout(cfg.APITimeout),
		menuapi.WithImages(cfg.ImageBaseURL, cfg.PlaceholderImage),
	)
	if err != nil {
		return fmt.Errorf("menu api client: %w", err)
	}
	menuService := menu.NewService(client, orders)

	pages, err := web.Parse()
	if err != nil {
		return err
	}

	hub := ws.NewHub()
	go hub.Run(ctx)

	limiter := ratelimit.New(cfg.OrderRateLimit, time.Minute, cfg.OrderRateLimit)
	defer limiter.Close()

	handler := router.New(cfg, router.Deps{
		Menu:    menuService,
		Orders:  orders,
		Hub:     hub,
		Pages:   pages,
		Site:    content.Default(),
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr, "menu_api", cfg.MenuAPIURL)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		slog.Info("server stopped")
	}
	return nil
}

// openStore uses Postgres when databaseURL is set and an in-memory store
// otherwise.
func openStore(ctx context.Context, databaseURL string) (store.Store, func(), error) {
	if databaseURL == "" {
		slog.Warn("DATABASE_URL not set, order requests are kept in memory")
		return store.NewMemory(), func() {}, nil
	}
	if err := store.Migrate(databaseURL); err != nil {
		return nil, nil, err
	}
	pool, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("connected to database")
	return store.NewPostgres(pool), pool.Close, nil
}
