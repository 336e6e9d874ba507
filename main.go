package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reusedev/render-relay/config"
	"github.com/reusedev/render-relay/internal/consts"
	"github.com/reusedev/render-relay/internal/modules/ai"
	"github.com/reusedev/render-relay/internal/modules/ai/image"
	"github.com/reusedev/render-relay/internal/modules/ai/image/gemini"
	"github.com/reusedev/render-relay/internal/modules/ai/image/sdk"
	"github.com/reusedev/render-relay/internal/modules/cache"
	"github.com/reusedev/render-relay/internal/modules/logs"
	"github.com/reusedev/render-relay/internal/modules/metrics"
	"github.com/reusedev/render-relay/internal/service/http"
	"github.com/reusedev/render-relay/internal/service/http/handler"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// failureWindow is how long upstream failures of one key are remembered for logging.
const failureWindow = 10 * time.Minute

var (
	httpPort   string
	configPath string
)

var rootCmd = &cobra.Command{
	Use:          "render-relay",
	Short:        "Relay image + prompt renders to Gemini with rotating API keys",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "config.yml", "config file path, optional")
	rootCmd.Flags().StringVar(&httpPort, "port", "", "listen port, overrides PORT")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	if err := config.Init(configPath); err != nil {
		return err
	}
	cfg := config.GConfig
	if httpPort != "" {
		cfg.Port = httpPort
	}
	logs.InitLogger()

	tokens, err := ai.NewTokenManager(cfg.APIKeys)
	if err != nil {
		return err
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}
	collector := metrics.NewCollector("render_relay")
	relay := image.NewRelay(tokens, newSender(cfg, timeout),
		image.WithFailureTracker(cache.NewFailureTracker(failureWindow)),
		image.WithCollector(collector),
	)
	engine := http.NewRouter(http.RouterOptions{
		PrivateAPIKey:    cfg.PrivateAPIKey,
		MaxUploadSize:    cfg.MaxUploadSize,
		CorsAllowOrigins: cfg.CorsAllowOrigins,
		Render:           handler.NewRender(relay, cfg.MaxUploadSize, cfg.TranscodeOutput),
		Collector:        collector,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return http.Serve(ctx, cfg.ListenAddr(), engine)
	})
	if cfg.MetricsPort != "" {
		g.Go(func() error {
			return http.Serve(ctx, ":"+cfg.MetricsPort, collector.Handler())
		})
	}
	logs.Logger.Info().
		Str("addr", cfg.ListenAddr()).
		Str("route", consts.RenderPath).
		Str("transport", cfg.Transport).
		Str("model", cfg.Model).
		Int("keys", tokens.Len()).
		Msg("render relay ready")
	return g.Wait()
}

func newSender(cfg *config.Config, timeout time.Duration) image.Sender {
	if consts.Transport(cfg.Transport) == consts.TransportSDK {
		return sdk.NewProvider(cfg.BaseURL, cfg.Model, timeout)
	}
	return gemini.NewProvider(cfg.BaseURL, cfg.Model, timeout)
}
