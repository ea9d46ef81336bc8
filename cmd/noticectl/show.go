package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"

	"github.com/jmylchreest/noticekit/internal/config"
	"github.com/jmylchreest/noticekit/internal/dbus"
	"github.com/jmylchreest/noticekit/internal/notice"
)

var showOpts struct {
	key      string
	duration string
	emitDBus bool
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Mount a notice and wait for it to close",
	Long: `Mount a notice, print its markup and block until it closes.

The notice closes automatically once its duration elapses. An interrupt
(Ctrl+C) closes it manually. A duration of 0 keeps it open until
interrupted.

On close the key, close type and elapsed time are printed.`,
	Example: `  noticectl show --duration 3s
  noticectl show --duration 0 --dbus`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().StringVar(&showOpts.key, "key", "",
		"Notice key (generated if empty)")
	showCmd.Flags().StringVar(&showOpts.duration, "duration", "",
		"Auto-close duration, e.g. 1.5s or milliseconds (overrides config)")
	showCmd.Flags().BoolVar(&showOpts.emitDBus, "dbus", false,
		"Emit a NotificationClosed signal on the session bus")
}

type closeEvent struct {
	key       string
	closeType notice.CloseType
}

func runShow(cmd *cobra.Command, args []string) error {
	nc := cfg.Notice
	if showOpts.duration != "" {
		var d config.Duration
		if err := d.UnmarshalText([]byte(showOpts.duration)); err != nil {
			return err
		}
		if d < 0 {
			return fmt.Errorf("%w: %s", config.ErrInvalidDuration, d.Duration())
		}
		nc.Duration = d
	}

	closed := make(chan closeEvent, 1)
	onClose := notice.CloseFunc(func(key string, closeType notice.CloseType) {
		select {
		case closed <- closeEvent{key: key, closeType: closeType}:
		default:
		}
	})

	if cfg.DBus.EmitClosed || showOpts.emitDBus {
		signaler, err := dbus.ConnectSessionBus(logger)
		if err != nil {
			logger.Warn("D-Bus signals disabled", "error", err)
		} else {
			onClose = signaler.Wrap(onClose)
		}
	}

	nCfg := nc.ToNotice(showOpts.key)
	nCfg.OnClose = onClose
	n := notice.New(nCfg, notice.WithLogger(logger))
	defer n.Destroy()

	if err := html.Render(os.Stdout, n.Render()); err != nil {
		return fmt.Errorf("failed to write markup: %w", err)
	}
	fmt.Println()

	start := time.Now()
	n.Mount()
	if deadline, ok := n.Deadline(); ok {
		logger.Info("notice mounted", "key", n.Key(), "closes", humanize.Time(deadline))
	} else {
		logger.Info("notice mounted without timer", "key", n.Key())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var ev closeEvent
	select {
	case ev = <-closed:
	case <-sigCh:
		n.Close(nil)
		ev = <-closed
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}

	fmt.Printf("%s closed (%s) after %s\n", ev.key, ev.closeType,
		time.Since(start).Round(time.Millisecond))
	return nil
}
