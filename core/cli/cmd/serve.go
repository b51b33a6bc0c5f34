package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hyperterse/sqlgeneric/core/dialect"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/di"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/logging"
	transporthttp "github.com/hyperterse/sqlgeneric/core/infrastructure/transport/http"
	"github.com/hyperterse/sqlgeneric/core/observability"
)

// serveCmd exposes the handler over HTTP
var serveCmd = &cobra.Command{
	Use:           "serve",
	Short:         "Serve the handler over HTTP",
	Args:          cobra.NoArgs,
	RunE:          serveHandler,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Server port (overrides config and SQLGENERIC_SERVER_PORT)")
}

func serveHandler(cmd *cobra.Command, _ []string) error {
	log := logging.New("serve")

	if port > 0 {
		appConfig.Server.Port = port
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := startObservability(ctx)
	if err != nil {
		return err
	}
	defer shutdown()

	container := di.NewContainer(appConfig)
	server := transporthttp.NewServer(transporthttp.Options{
		Addr:            appConfig.Address(),
		CORSOrigins:     appConfig.Server.CORSOrigins,
		ShutdownTimeout: appConfig.Server.ShutdownTimeout,
	})
	transporthttp.RegisterRoutes(server.Router(), container.HandlerService)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return logging.WithTag("http", server.Start())
	})
	g.Go(func() error {
		<-gctx.Done()
		return server.Stop()
	})

	dialects := make([]string, 0, len(dialect.Supported()))
	for _, d := range dialect.Supported() {
		dialects = append(dialects, d.String())
	}
	log.Infof("Serving on %s (dialects: %s, telemetry export: %t)",
		appConfig.Address(), strings.Join(dialects, ", "), observability.ActiveConfig().Enabled)
	return g.Wait()
}
