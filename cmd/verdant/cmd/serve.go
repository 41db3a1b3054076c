package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/verdantlabs/verdant"
	"github.com/verdantlabs/verdant/internal/server"
	"github.com/verdantlabs/verdant/pkg/logging"
)

var (
	serveHost            string
	servePort            int
	serveSeed            string
	servePrefetchCommand string
	serveHeartbeat       time.Duration
	serveCacheTTL        time.Duration
	serveCORSOrigins     []string
	serveMetrics         bool
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the content API and event stream server",
	Long: `Serve starts the content API. Clients read content over JSON
endpoints and subscribe to /api/events for live change notifications.
Content mutations trigger the configured prefetch command so the static
storefront is rebuilt with fresh data.`,
	Example: `  verdant serve
  verdant serve --port 8080 --seed content.yaml
  verdant serve --prefetch-command "npm run fetch-content"`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveSeed, "seed", "", "YAML seed file with initial content")
	serveCmd.Flags().StringVar(&servePrefetchCommand, "prefetch-command", "", "Shell command run after content changes")
	serveCmd.Flags().DurationVar(&serveHeartbeat, "heartbeat", 30*time.Second, "Event stream keep-alive interval")
	serveCmd.Flags().DurationVar(&serveCacheTTL, "cache-ttl", time.Minute, "Read cache lifetime")
	serveCmd.Flags().StringSliceVar(&serveCORSOrigins, "cors-origins", nil, "Allowed CORS origins (default: all)")
	serveCmd.Flags().BoolVar(&serveMetrics, "metrics", false, "Expose Prometheus metrics on /metrics")

	_ = viper.BindPFlag("prefetch-command", serveCmd.Flags().Lookup("prefetch-command"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := logging.Default()

	cfg := server.DefaultConfig()
	cfg.Host = serveHost
	cfg.Port = servePort
	cfg.Heartbeat = serveHeartbeat
	cfg.CacheTTL = serveCacheTTL
	cfg.CORSOrigins = serveCORSOrigins
	cfg.MetricsEnabled = serveMetrics
	if command := viper.GetString("prefetch-command"); command != "" {
		cfg.PrefetchCommand = command
	}

	opts := []verdant.Option{
		verdant.WithServerConfig(cfg),
		verdant.WithLogger(logger),
	}
	if serveSeed != "" {
		opts = append(opts, verdant.WithSeedFile(serveSeed))
	}

	v, err := verdant.New(opts...)
	if err != nil {
		return fmt.Errorf("creating content service: %w", err)
	}
	v.Start()

	httpServer := &http.Server{
		Addr:    v.Addr(),
		Handler: v.Handler(),
		// No write timeout: the event stream holds connections open
		// indefinitely.
		ReadTimeout: cfg.ReadTimeout,
		IdleTimeout: cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", v.Addr()).
			Str("seed", serveSeed).
			Msg("Content server listening")
		errCh <- httpServer.ListenAndServe()
	}()

	ctx := cmd.Context()
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("running server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}
	return v.Shutdown(shutdownCtx)
}
