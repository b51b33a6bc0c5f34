package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperterse/sqlgeneric/core/cli/internal"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/di"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/logging"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/serializer"
	"github.com/hyperterse/sqlgeneric/core/observability"
)

// runCmd executes one invocation and prints its envelope on stdout
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute the invocation described by a request document",
	Long: `Execute the invocation described by a request document and print the
result envelope. Under "Raise Error" handling a failure exits non-zero.`,
	Args:          cobra.NoArgs,
	RunE:          runInvocation,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&requestFile, "file", "f", "", "Path to the request document (YAML or JSON)")
	runCmd.Flags().StringVar(&format, "format", "xml", "Envelope format: xml or json")
	_ = runCmd.MarkFlagRequired("file")
}

func runInvocation(cmd *cobra.Command, _ []string) error {
	envelopeFormat, err := internal.ParseFormat(format)
	if err != nil {
		return err
	}

	input, err := internal.LoadRequest(requestFile)
	if err != nil {
		return err
	}

	shutdown, err := startObservability(cmd.Context())
	if err != nil {
		return err
	}
	defer shutdown()

	container := di.NewContainer(appConfig)
	outcome, err := container.HandlerService.Handle(cmd.Context(), input)
	if err != nil {
		return err
	}

	envelope, err := serializer.Render(outcome, envelopeFormat)
	if err != nil {
		return logging.WithTag("serializer", err)
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), envelope)
	return err
}

// startObservability installs the OpenTelemetry providers and returns a
// function that flushes them
func startObservability(ctx context.Context) (func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	providers, err := observability.Setup(ctx, GetVersion())
	if err != nil {
		return nil, logging.WithTag("observability", err)
	}
	return func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(flushCtx); err != nil {
			logging.New("observability").Warnf("Failed to flush telemetry: %v", err)
		}
	}, nil
}
