package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/IlyaRozhok/TaDa-sub005/internal/config"
	"github.com/IlyaRozhok/TaDa-sub005/internal/logger"
	"github.com/IlyaRozhok/TaDa-sub005/internal/natsstore"
	"github.com/IlyaRozhok/TaDa-sub005/internal/prefsd"
	"github.com/IlyaRozhok/TaDa-sub005/internal/schema"
)

var serveFlags struct {
	listenAddr string
	dataDir    string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local preference store daemon",
	Long: `Run a local preference store daemon.

The daemon speaks the same HTTP API as the hosted TaDa preference store,
backed by an embedded NATS JetStream key-value bucket on local disk. Point
the wizard at it for offline use:

  tada serve &
  tada wizard --api-url http://localhost:8642`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.listenAddr, "listen", "l", "", "Address to listen on (default: localhost:8642)")
	serveCmd.Flags().StringVar(&serveFlags.dataDir, "data-dir", "", "Data directory for draft storage (default: .tada)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if serveFlags.listenAddr != "" {
		cfg.ListenAddr = serveFlags.listenAddr
	}
	if serveFlags.dataDir != "" {
		cfg.DataDir = serveFlags.dataDir
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	s, err := schema.Resolve(cfg.SchemaFile)
	if err != nil {
		return fmt.Errorf("failed to load preference schema: %w", err)
	}

	ns, err := natsstore.StartEmbedded(filepath.Join(cfg.DataDir, "store"))
	if err != nil {
		return fmt.Errorf("failed to start storage: %w", err)
	}

	nc, err := natsstore.ConnectInProcess(ns)
	if err != nil {
		ns.Shutdown()
		return fmt.Errorf("failed to connect to storage: %w", err)
	}
	defer func() {
		if err := natsstore.Shutdown(nc, ns); err != nil {
			logger.Warn("Storage shutdown: %v", err)
		}
	}()

	js, err := natsstore.CreateJetStream(nc)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := natsstore.NewDraftStore(ctx, js)
	if err != nil {
		return fmt.Errorf("failed to open draft store: %w", err)
	}

	srv := prefsd.NewServer(store, s, cfg.APIToken)
	return srv.Run(ctx, cfg.ListenAddr)
}
