package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/beka-birhanu/vinom-qmaze/api/i"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// Router manages the HTTP server of the viewer and its controllers.
type Router struct {
	addr        string
	baseURL     string
	controllers []i.Controller
}

// Config holds configuration settings for creating a new Router instance.
type Config struct {
	Addr        string // Address to listen on
	BaseURL     string // Base URL for API routes
	Controllers []i.Controller
}

// NewRouter creates a new Router instance with the given configuration.
func NewRouter(config Config) *Router {
	return &Router{
		addr:        config.Addr,
		baseURL:     config.BaseURL,
		controllers: config.Controllers,
	}
}

// Handler builds the gin engine with every controller registered under
// <baseURL>/v1.
func (r *Router) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	if gin.Mode() != gin.TestMode {
		router.Use(gin.Logger())
	}

	// Setting up routes under baseURL
	api := router.Group(r.baseURL)
	{
		publicRoutes := api.Group("/v1")
		{
			for _, c := range r.controllers {
				c.RegisterPublic(publicRoutes)
			}
		}
	}

	return router
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (r *Router) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              r.addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
