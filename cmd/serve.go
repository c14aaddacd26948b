package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pders01/packpick/internal/config"
	"github.com/pders01/packpick/internal/registry"
	"github.com/pders01/packpick/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pack list and install commands over HTTP",
	Long: `Run the picker HTTP API.

Routes:
  GET /healthz
  GET /api/packs?lang=&q=&packs=
  GET /api/command?packs=&mode=
  GET /api/packs/{name}/manifest
  GET /api/languages
  GET /api/count
  GET /metrics

The registry is loaded once at startup. If it cannot be loaded the API
keeps serving the default install command.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := serveAddr
	if addr == "" {
		addr = config.GetServerAddr()
	}

	client := registry.NewClient(config.GetRegistryURL(), config.GetRegistryTimeout())
	srv := server.New(server.Config{
		Registry:        client,
		Manifests:       registry.NewManifestCache(client, logger),
		Mode:            config.GetInstallMode(),
		PrefetchWorkers: config.GetManifestWorkers(),
		Logger:          logger,
	})

	fmt.Fprintf(stdout(cmd), "Serving on http://%s\n", addr)
	if err := srv.Run(ctx, addr); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	return nil
}
