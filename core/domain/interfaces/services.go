package interfaces

import (
	"context"

	"github.com/hyperterse/sqlgeneric/core/domain"
)

// HandlerService turns host input into an invocation and its rendered envelope
type HandlerService interface {
	// Handle executes the invocation. Under raise mode the first failure is
	// returned and no envelope is produced.
	Handle(ctx context.Context, input domain.HostInput) (domain.ExecutionOutcome, error)

	// Preview resolves and substitutes the template of an invocation
	Preview(ctx context.Context, input domain.HostInput) (domain.Statement, error)
}
