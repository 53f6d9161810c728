// Package api AssetView REST API
//
// @title           AssetView REST API
// @version         1.0.0
// @description     Filter, sort and page through a stock price dataset.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey SessionAuth
// @in              header
// @name            X-Session-Token
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/swaggo/swag"
)

const defaultShutdownTimeout = 10 * time.Second

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	 <title>AssetView API Documentation</title>
	 <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	 <div id="swagger-ui"></div>
	 <script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	 <script>
	   window.onload = function() {
	     SwaggerUIBundle({
	       url: '/swagger/swagger.json',
	       dom_id: '#swagger-ui',
	       presets: [
	         SwaggerUIBundle.presets.apis,
	         SwaggerUIBundle.presets.standalone
	       ]
	     });
	   };
	 </script>
</body>
</html>`

// Handler returns the router with every route configured
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", SessionHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		m := s.metrics

		// Public
		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))
		r.Post("/login", m.InstrumentHandler("POST", "/api/v1/login", s.handleLogin))

		// Session protected
		r.Group(func(r chi.Router) {
			r.Use(sessionMiddleware(s.sessions, m))

			r.Post("/logout", m.InstrumentHandler("POST", "/api/v1/logout", s.handleLogout))

			r.Get("/assets", m.InstrumentHandler("GET", "/api/v1/assets", s.handleAssets))
			r.Get("/fields", m.InstrumentHandler("GET", "/api/v1/fields", s.handleFields))

			r.Get("/view", m.InstrumentHandler("GET", "/api/v1/view", s.handleGetView))
			r.Post("/view/filter", m.InstrumentHandler("POST", "/api/v1/view/filter", s.handleFilter))
			r.Post("/view/sort", m.InstrumentHandler("POST", "/api/v1/view/sort", s.handleSort))
			r.Post("/view/next", m.InstrumentHandler("POST", "/api/v1/view/next", s.handleNextPage))
			r.Post("/view/previous", m.InstrumentHandler("POST", "/api/v1/view/previous", s.handlePreviousPage))

			r.Get("/dataset", m.InstrumentHandler("GET", "/api/v1/dataset", s.handleDataset))
			r.Post("/dataset/reload", m.InstrumentHandler("POST", "/api/v1/dataset/reload", s.handleReload))
		})
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", s.handleSwagger)

	return r
}

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/swagger/", "/swagger/index.html":
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerUI))
	case "/swagger/swagger.json":
		doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
		if err != nil {
			s.logger.Error("failed to generate swagger doc", "error", err)
			http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	default:
		http.NotFound(w, r)
	}
}

// LoadDataset ingests the configured source and records the outcome
func (s *Server) LoadDataset(ctx context.Context) error {
	if s.source == nil {
		return errors.New("no dataset source configured")
	}
	_, err := s.loadDataset(ctx)
	return err
}

// Addr returns the listen address
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// StartServer loads the dataset, then serves the API until ctx is
// canceled and shuts down gracefully
func StartServer(ctx context.Context, deps Dependencies, config ServerConfig) error {
	SwaggerInfo.Host = fmt.Sprintf("localhost:%d", config.Port)

	server := NewServer(deps, config, NewMetrics())
	if err := server.LoadDataset(ctx); err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	httpServer := &http.Server{
		Addr:              config.Addr(),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		server.logger.Info("starting AssetView REST API server",
			"addr", httpServer.Addr,
			"metrics", fmt.Sprintf("http://%s/metrics", httpServer.Addr))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	server.logger.Info("shutting down server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
