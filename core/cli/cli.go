package cli

import (
	"github.com/hyperterse/sqlgeneric/core/cli/cmd"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/logging"
)

// Execute runs the CLI
func Execute() error {
	defer func() { _ = logging.CloseLogFile() }()

	if err := cmd.Execute(); err != nil {
		logging.New(logging.ErrorTagOr(err, "cli")).Error(err.Error())
		return err
	}
	return nil
}
