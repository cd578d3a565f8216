package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tiller-ui/tiller/internal/config"
	"github.com/tiller-ui/tiller/internal/dev"
)

func devCmd() *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server with live reload.

The dev server watches for file changes, recompiles the wasm bundle,
and refreshes connected browsers. Every non-file path serves
index.html, so deep links into the app resolve during development.

Examples:
  tiller dev
  tiller dev --port=8080
  tiller dev --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from tiller.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from tiller.json)")

	return cmd
}

func runDev(port int, host string) error {
	if _, err := exec.LookPath("go"); err != nil {
		info("Go is not installed or not in PATH")
		return err
	}

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
	}

	printBanner()
	fmt.Printf("  http://%s\n\n", cfg.Addr())

	server := dev.NewServer(dev.ServerOptions{
		Config: cfg,
		Build: func() error {
			return runBuild(cfg, false)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Start(ctx)
}
