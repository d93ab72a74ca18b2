package server

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"roomMakerAi/internal/session"
)

// Options configures the HTTP server.
type Options struct {
	Port           string
	StaticDir      string
	RatePerMinute  int
	RateBurst      int
	GenerateWindow time.Duration
	Logger         *zap.Logger
}

// NewRouter builds the chi router with every route and middleware.
func NewRouter(opts Options, sessionHandler session.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	router.Route("/api", func(r chi.Router) {
		r.Get("/styles", sessionHandler.Styles)
		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.Get)
			r.Post("/image", sessionHandler.UploadImage)
			r.Get("/image", sessionHandler.GetImage)
			r.Put("/style", sessionHandler.SelectStyle)
			r.With(RateLimit(opts.RatePerMinute, opts.RateBurst, logger)).Post("/generate", sessionHandler.Generate)
			r.Get("/render", sessionHandler.GetRender)
			r.Get("/events", sessionHandler.StreamEvents)
			r.Post("/export", sessionHandler.Export)
		})
	})

	// Serve the static frontend
	if opts.StaticDir != "" {
		if info, err := os.Stat(opts.StaticDir); err == nil && info.IsDir() {
			router.Handle("/*", http.FileServer(http.Dir(opts.StaticDir)))
		}
	}
	return router
}

// New constructs the HTTP server with routes and middleware. The write timeout
// leaves room for a full generation attempt.
func New(opts Options, sessionHandler session.Handler) *http.Server {
	window := opts.GenerateWindow
	if window <= 0 {
		window = 2 * time.Minute
	}

	srv := &http.Server{
		Addr:              ":" + opts.Port,
		Handler:           NewRouter(opts, sessionHandler),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      window + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	if opts.Logger != nil {
		opts.Logger.Info("server ready", zap.String("addr", srv.Addr))
	}
	return srv
}
