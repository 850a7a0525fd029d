package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/relay-panel/internal/config"
	"github.com/rickgao/relay-panel/internal/connection"
	"github.com/rickgao/relay-panel/internal/control"
	"github.com/rickgao/relay-panel/internal/logger"
	"github.com/rickgao/relay-panel/internal/model"
	"github.com/rickgao/relay-panel/internal/panel"
	"github.com/rickgao/relay-panel/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults apply when empty)")
	host := flag.String("host", "", "relay controller host[:port], overrides server.host")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Load configuration
	cfg, err := loadConfig(*configPath, *host)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging
	log, closer, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer closer.Close()

	log.Info("starting relay panel",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
		"host", cfg.Server.Host,
		"relays", len(cfg.Relays),
	)

	// Create context with cancellation
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	board := panel.NewBoard(cfg.Labels())
	terminal := panel.NewTerminal(board, os.Stdout, cfg.Panel.Color)

	mgr := connection.NewManager(managerConfig(cfg), terminal, log)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := mgr.Start(gctx); err != nil {
			return fmt.Errorf("start connection manager: %w", err)
		}
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return mgr.Stop(shutdownCtx)
	})

	if cfg.Panel.Console {
		console := panel.NewConsole(os.Stdin, os.Stdout, mgr, terminal, len(cfg.Relays), log)
		g.Go(func() error {
			if err := console.Run(gctx); err != nil {
				return fmt.Errorf("console: %w", err)
			}
			// quit or EOF ends the session
			if gctx.Err() == nil {
				log.Info("console closed, shutting down")
				stop()
			}
			return nil
		})
	}

	if cfg.Control.Enabled {
		srv := control.NewServer(control.Config{
			Addr:        cfg.Control.Addr,
			ToggleRate:  cfg.Control.ToggleRate,
			ToggleBurst: cfg.Control.ToggleBurst,
		}, mgr, cfg.Labels(), log)
		g.Go(func() error {
			if err := srv.ListenAndServe(gctx); err != nil {
				return fmt.Errorf("control server: %w", err)
			}
			return nil
		})
	}

	log.Info("relay panel running", "url", model.EndpointURL(cfg.Server.Host))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("relay panel stopped with error", "error", err)
		closer.Close()
		os.Exit(1)
	}

	log.Info("relay panel stopped", "stats", mgr.Stats())
}

// loadConfig reads path when set, otherwise starts from defaults, then
// applies the host override.
func loadConfig(path, host string) (*config.PanelConfig, error) {
	var cfg *config.PanelConfig
	if path == "" {
		cfg = config.Default()
	} else {
		var err error
		cfg, err = config.LoadWithDefaults(path)
		if err != nil {
			return nil, err
		}
	}

	if host != "" {
		cfg.Server.Host = host
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func managerConfig(cfg *config.PanelConfig) connection.ManagerConfig {
	conn := cfg.Connection

	pingInterval := conn.PingInterval
	if pingInterval < 0 {
		pingInterval = 0
	}

	return connection.ManagerConfig{
		URL:            model.EndpointURL(cfg.Server.Host),
		ReconnectDelay: conn.ReconnectDelay,
		RelayCount:     len(cfg.Relays),
		Client: connection.ClientConfig{
			HandshakeTimeout: conn.HandshakeTimeout,
			PingInterval:     pingInterval,
			PingTimeout:      conn.PingTimeout,
			WriteTimeout:     conn.WriteTimeout,
			BufferSize:       conn.BufferSize,
		},
	}
}
