package http_init

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	http_common "github.com/humanbelnik/kinoswap/rooms/internal/delivery/http/common"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	apiPrefix       = "/api/v1"
	shutdownTimeout = 10 * time.Second
)

type Controller interface {
	RegisterRoutes(router *gin.RouterGroup)
}

type ControllerPool struct {
	pool   []Controller
	rg     *gin.RouterGroup
	engine *gin.Engine
	logger zerolog.Logger
}

type PoolOption func(*corsOptions)

type corsOptions struct {
	allowedOrigins []string
}

// WithAllowedOrigins restricts CORS to the given origins. "*" or nothing allows all.
func WithAllowedOrigins(origins []string) PoolOption {
	return func(o *corsOptions) {
		o.allowedOrigins = origins
	}
}

func NewControllerPool(opts ...PoolOption) *ControllerPool {
	o := &corsOptions{}
	for _, opt := range opts {
		opt(o)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(corsConfig(o.allowedOrigins)))

	rg := engine.Group(apiPrefix)
	return &ControllerPool{
		pool:   make([]Controller, 0, 10),
		rg:     rg,
		engine: engine,
		logger: log.With().Str("module", "delivery.http").Logger(),
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, http_common.UserTokenHeader)
	cfg.ExposeHeaders = []string{http_common.UserTokenHeader}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}

	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (pool *ControllerPool) Register() {
	for _, c := range pool.pool {
		c.RegisterRoutes(pool.rg)
	}
}

func (pool *ControllerPool) Add(c Controller) {
	pool.pool = append(pool.pool, c)
}

func (pool *ControllerPool) Handler() http.Handler {
	return pool.engine
}

// Serve listens on host:port until ctx is done, then drains in-flight requests.
func (pool *ControllerPool) Serve(ctx context.Context, host, port string) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           pool.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		pool.logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	pool.logger.Info().Msg("http server shutting down")
	return srv.Shutdown(shutdownCtx)
}
