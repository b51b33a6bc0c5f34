package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/hyperterse/sqlgeneric/core/cli/internal"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/di"
)

// renderCmd prints the substituted statement without contacting the database
var renderCmd = &cobra.Command{
	Use:           "render",
	Short:         "Resolve and substitute a template without executing it",
	Args:          cobra.NoArgs,
	RunE:          renderStatement,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&requestFile, "file", "f", "", "Path to the request document (YAML or JSON)")
	_ = renderCmd.MarkFlagRequired("file")
}

type renderOutput struct {
	Action string `json:"action"`
	SQL    string `json:"sql"`
	Binds  []any  `json:"binds"`
}

func renderStatement(cmd *cobra.Command, _ []string) error {
	input, err := internal.LoadRequest(requestFile)
	if err != nil {
		return err
	}

	container := di.NewContainer(appConfig)
	stmt, err := container.HandlerService.Preview(cmd.Context(), input)
	if err != nil {
		return err
	}

	binds := stmt.Binds
	if binds == nil {
		binds = []any{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(renderOutput{Action: stmt.Action.String(), SQL: stmt.SQL, Binds: binds})
}
