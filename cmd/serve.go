package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"roomload/config"
	"roomload/internal/logging"
	"roomload/metrics"
	"roomload/refresh"
	"roomload/web"
)

var (
	serveSource  rowSourceFlags
	servePort    int
	serveNoOpen  bool
	serveRefresh time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a local web UI with the occupancy grid and teaching loads",
	Long: `Start a local HTTP server with the allocation page (/), the loads page
(/loads), JSON endpoints under /api, an occupancy chart and Prometheus metrics.

When rows come from a URL (--url or source.url) the server is live: it rebuilds
every --refresh interval and keeps the last good snapshot when a fetch fails.
Rows from files or the row store are built once and rebuilt on POST /api/refresh.`,
	Example: `
  # Serve the staged rows on the configured port
  roomload serve

  # Serve a published sheet, refreshing every 30 seconds
  roomload serve --url https://example.org/schedule.csv --refresh 30s --port 9090
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		logOpts := logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format}
		logger := logging.New("serve", logOpts)

		buildOpts, err := buildOptions(cfg)
		if err != nil {
			return err
		}
		origin, err := resolveRowOrigin(cmd, &serveSource, cfg)
		if err != nil {
			return err
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		recorder, err := metrics.NewRecorder(registry)
		if err != nil {
			return err
		}

		refresherLog := logging.New("refresh", logOpts).With().Str("source", origin.label).Logger()
		refresher := refresh.New(origin.source, origin.live, refresh.Options{
			Build:    buildOpts,
			Interval: resolveRefreshInterval(cmd, serveRefresh, cfg.Source.RefreshInterval),
			Recorder: recorder,
			Logger:   &refresherLog,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if origin.live {
			go func() {
				_ = refresher.Run(ctx)
			}()
		} else if _, err := refresher.Refresh(ctx); err != nil {
			return err
		}

		port := servePort
		if !cmd.Flags().Changed("port") {
			port = cfg.Server.Port
		}
		webLog := logging.New("web", logOpts)
		server := &http.Server{
			Addr: fmt.Sprintf(":%d", port),
			Handler: web.NewServer(refresher, web.Options{
				Metrics: metrics.Handler(registry),
				Logger:  &webLog,
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		listenURL := fmt.Sprintf("http://localhost:%d", port)
		logger.Info().Str("url", listenURL).Bool("live", origin.live).Msg("listening")
		fmt.Printf("Listening on %s\n", listenURL)
		if !serveNoOpen {
			if openErr := openURLInBrowser(listenURL); openErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to open browser: %v\n", openErr)
			}
		}

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

// resolveRefreshInterval prefers an explicit --refresh flag over the
// configured source.refresh_interval.
func resolveRefreshInterval(cmd *cobra.Command, flagValue, configured time.Duration) time.Duration {
	if cmd != nil && cmd.Flags().Changed("refresh") && flagValue > 0 {
		return flagValue
	}
	if configured > 0 {
		return configured
	}
	return refresh.DefaultInterval
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveSource.register(serveCmd, "format")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "HTTP port for the local web server (default: server.port from config)")
	serveCmd.Flags().DurationVar(&serveRefresh, "refresh", refresh.DefaultInterval, "Rebuild interval for live sources (default: source.refresh_interval from config)")
	serveCmd.Flags().BoolVar(&serveNoOpen, "no-open", false, "Do not open browser automatically")
}

func openURLInBrowser(rawURL string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	return cmd.Start()
}
