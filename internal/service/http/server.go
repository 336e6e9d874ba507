package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/reusedev/render-relay/internal/consts"
	"github.com/reusedev/render-relay/internal/modules/logs"
	"github.com/reusedev/render-relay/internal/modules/metrics"
	"github.com/reusedev/render-relay/internal/service/http/handler"
	"github.com/reusedev/render-relay/internal/service/http/middleware"
	"github.com/reusedev/render-relay/internal/service/http/response"
)

const shutdownTimeout = 10 * time.Second

type RouterOptions struct {
	PrivateAPIKey    string
	MaxUploadSize    int64
	CorsAllowOrigins []string
	Render           *handler.Render
	Collector        *metrics.Collector
}

func NewRouter(opts RouterOptions) *gin.Engine {
	e := gin.New()
	initRouter(e, opts)
	return e
}

func initRouter(e *gin.Engine, opts RouterOptions) {
	e.Use(gin.Recovery())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Collector))
	e.Use(cors.New(corsConfig(opts.CorsAllowOrigins)))

	e.POST(consts.RenderPath,
		middleware.Auth(opts.PrivateAPIKey),
		middleware.BodyLimit(opts.MaxUploadSize),
		opts.Render.ImageToRender,
	)
	e.NoRoute(func(c *gin.Context) {
		response.Abort(c, response.InvalidRoute)
	})
}

func corsConfig(origins []string) cors.Config {
	conf := cors.DefaultConfig()
	conf.AddAllowHeaders(consts.PrivateKeyHeader)
	conf.AddExposeHeaders("Content-Disposition", middleware.RequestIDHeader)
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = origins
	}
	return conf
}

// Serve runs handler on addr until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logs.Logger.Info().Str("addr", addr).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
