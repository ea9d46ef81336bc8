package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/noticekit/internal/config"
	"github.com/jmylchreest/noticekit/internal/dbus"
	"github.com/jmylchreest/noticekit/internal/metrics"
	"github.com/jmylchreest/noticekit/internal/notice"
	"github.com/jmylchreest/noticekit/internal/tui"
)

var demoOpts struct {
	metricsAddr string
	emitDBus    bool
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Launch the interactive notice demo",
	Long: `Launch a terminal demo hosting a single notice.

Move the mouse over the notice to pause its timer; moving away restarts
the full duration. Click the × to close it manually.

Key bindings:
  n           New notice
  x           Close notice
  r           Bump update mark (restarts the timer)
  +/-         Change duration
  h           Toggle hover
  m           Toggle mount target
  c           Copy HTML to clipboard
  ?           Show help
  q           Quit

The config file is watched and changes are applied to the live notice.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVar(&demoOpts.metricsAddr, "metrics-addr", "",
		"Serve Prometheus metrics on this address (overrides config)")
	demoCmd.Flags().BoolVar(&demoOpts.emitDBus, "dbus", false,
		"Emit NotificationClosed signals on the session bus")
}

func runDemo(cmd *cobra.Command, args []string) error {
	opts := []tui.Option{tui.WithLogger(logger)}

	addr := cfg.Metrics.Listen
	if demoOpts.metricsAddr != "" {
		addr = demoOpts.metricsAddr
	}
	if cfg.Metrics.Enabled || demoOpts.metricsAddr != "" {
		recorder := metrics.NewRecorder()
		srv := serveMetrics(addr)
		defer shutdownMetrics(srv)
		opts = append(opts, tui.WithNoticeOptions(notice.WithObserver(recorder)))
	}

	if cfg.DBus.EmitClosed || demoOpts.emitDBus {
		signaler, err := dbus.ConnectSessionBus(logger)
		if err != nil {
			logger.Warn("D-Bus signals disabled", "error", err)
		} else {
			opts = append(opts, tui.WithCloseWrapper(signaler.Wrap))
		}
	}

	p := tui.NewProgram(tui.New(cfg.Notice, opts...))

	path, err := configPath()
	if err != nil {
		logger.Warn("config hot reload disabled", "error", err)
	} else {
		watcher, err := config.NewWatcher(path, func(c *config.Config) {
			p.Send(tui.ConfigMsg{Config: c})
		}, logger)
		if err != nil {
			logger.Warn("config hot reload disabled", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("config hot reload disabled", "error", err)
		} else {
			defer func() { _ = watcher.Stop() }()
		}
	}

	_, err = p.Run()
	return err
}

// serveMetrics exposes the default Prometheus registry on addr.
func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(prometheus.DefaultGatherer))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", addr)
	return srv
}

func shutdownMetrics(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown", "error", err)
	}
}
