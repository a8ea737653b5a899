package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	c "bolao/internal/cache"
	"bolao/internal/landing"
	m "bolao/internal/middlewares"
	"bolao/internal/models"
	"bolao/internal/services"
	"bolao/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func NewRouter(config models.Configuration, cache c.ICache, controller *landing.Controller) (http.Handler, error) {
	renderer, err := landing.NewRenderer(web.Assets)
	if err != nil {
		return nil, err
	}

	static, err := fs.Sub(web.Assets, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout(config)))
	r.Use(m.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: config.App.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	r.Mount("/", services.LandingService{
		Controller:        controller,
		Renderer:          renderer,
		Cache:             cache,
		TrustedProxies:    config.App.TrustedProxies,
		FormRateLimit:     config.App.FormRateLimit,
		CountersRateLimit: config.App.CountersRateLimit,
	}.Routes())

	return otelhttp.NewHandler(r, "bolao", otelhttp.WithSpanNameFormatter(
		func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		},
	)), nil
}

// requestTimeout covers a form submission: one backend round for the create
// call and one for the counter refresh.
func requestTimeout(config models.Configuration) time.Duration {
	return config.Backend.Timeout()*2 + 5*time.Second
}

// StartHTTPServer serves until ctx is cancelled, then drains in-flight
// requests.
func StartHTTPServer(ctx context.Context, config models.Configuration, cache c.ICache, controller *landing.Controller) {
	handler, err := NewRouter(config, cache, controller)
	if err != nil {
		zap.L().Fatal("Failed to build router", zap.Error(err))
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.App.Port),
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: requestTimeout(config) + 5*time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if shutdownErr := server.Shutdown(shutdownCtx); shutdownErr != nil {
			zap.L().Error("Failed to shut down HTTP server", zap.Error(shutdownErr))
		}
	}()

	zap.L().Info("HTTP server starting", zap.Int("port", config.App.Port))

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().Error("Failed to start the app", zap.Error(err))
	}
}
