package cli

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/getchatd/chatd/pkg/config"
	"github.com/getchatd/chatd/pkg/hub"
	"github.com/getchatd/chatd/pkg/logging"
	"github.com/getchatd/chatd/pkg/server"
	"github.com/getchatd/chatd/pkg/stats"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the relay server (default command)",
	Example: `  # Serve on the default loopback address
  chatd serve

  # Serve publicly on port 80 and open the chat page
  chatd serve --addr :80 --open

  # Load settings from a file, overriding the listen address
  chatd serve --config chatd.yaml --addr 127.0.0.1:9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	registerServeFlags(serveCmd)
	registerServeFlags(rootCmd)
}

// registerServeFlags installs the serve flag set. The flags also live on the
// root command so a bare "chatd" serves with them.
func registerServeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("addr", "a", config.DefaultAddr, "TCP listen address")
	cmd.Flags().StringP("config", "c", "", "path to a YAML configuration file")
	cmd.Flags().Bool("open", false, "open the chat page in the default browser")
	cmd.Flags().Int("max-conns", 0, "maximum concurrent connections (0 = unlimited)")
	cmd.Flags().Duration("read-timeout", config.DefaultReadTimeout, "per-read socket timeout")
	cmd.Flags().Duration("write-timeout", config.DefaultWriteTimeout, "per-write socket timeout")
	cmd.Flags().Duration("keepalive-interval", config.DefaultKeepaliveInterval, "idle time before a stream ping")
	cmd.Flags().Duration("stats-interval", config.DefaultStatsInterval, "period between counter reports (0 disables)")
	cmd.Flags().String("log-level", "info", "log level: debug, info, warn, error")
	cmd.Flags().String("log-format", "text", "log format: text or json")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
	})

	st := stats.New(os.Stderr, cfg.StatsInterval)
	st.Start()
	defer st.Stop()

	h := hub.New(logger, st)
	srv := server.New(cfg, h, logger, st)
	if err := srv.Listen(); err != nil {
		return err
	}

	if cfg.OpenBrowser {
		go openChatPage(srv, logger)
	}

	// No graceful drain: a signal closes the listener and the process
	// ends; in-flight connections die with it.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		logger.Info("shutting down", "signal", s.String())
		_ = srv.Close()
	}()

	return srv.Serve()
}

// buildConfig layers defaults, the optional config file, and explicitly set
// flags, then validates the result.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	fl := cmd.Flags()

	cfg := config.Default()
	if path, _ := fl.GetString("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if fl.Changed("addr") {
		cfg.Addr, _ = fl.GetString("addr")
	}
	if fl.Changed("open") {
		cfg.OpenBrowser, _ = fl.GetBool("open")
	}
	if fl.Changed("max-conns") {
		cfg.MaxConns, _ = fl.GetInt("max-conns")
	}
	if fl.Changed("read-timeout") {
		cfg.ReadTimeout, _ = fl.GetDuration("read-timeout")
	}
	if fl.Changed("write-timeout") {
		cfg.WriteTimeout, _ = fl.GetDuration("write-timeout")
	}
	if fl.Changed("keepalive-interval") {
		cfg.KeepaliveInterval, _ = fl.GetDuration("keepalive-interval")
	}
	if fl.Changed("stats-interval") {
		cfg.StatsInterval, _ = fl.GetDuration("stats-interval")
	}
	if fl.Changed("log-level") {
		cfg.LogLevel, _ = fl.GetString("log-level")
	}
	if fl.Changed("log-format") {
		cfg.LogFormat, _ = fl.GetString("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// openChatPage launches the platform browser at the served root URL once the
// listener is bound. Failure is logged, never fatal.
func openChatPage(srv *server.Server, logger *slog.Logger) {
	url := rootURL(srv.Addr().String())
	if err := browser.OpenURL(url); err != nil {
		logger.Warn("could not open browser", "url", url, "error", err)
	}
}

// rootURL turns a bound listen address into something a browser can open:
// wildcard hosts become localhost.
func rootURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/"
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
