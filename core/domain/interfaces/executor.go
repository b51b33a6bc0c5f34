package interfaces

import (
	"context"
	"time"

	"github.com/hyperterse/sqlgeneric/core/dialect"
	"github.com/hyperterse/sqlgeneric/core/domain"
)

// TemplateStore resolves a template by its logical name
type TemplateStore interface {
	// Resolve fetches the template body; it never serves a cached copy
	Resolve(ctx context.Context, name string) (domain.Template, error)
}

// Prober checks that a host:port accepts transport connections
type Prober interface {
	// Probe dials and immediately closes a connection within timeout
	Probe(ctx context.Context, host string, port int, timeout time.Duration) domain.ProbeResult
}

// Engine executes one substituted statement over a connection scoped to the call
type Engine interface {
	// Execute returns []domain.Record for fetch statements and
	// domain.SuccessIndicator for run statements
	Execute(ctx context.Context, cfg dialect.Config, conn domain.ConnectionInfo, stmt domain.Statement) (any, error)
}

// Executor runs the full resolve → substitute → probe → execute pipeline
type Executor interface {
	// Execute runs the pipeline and applies the request's error mode
	Execute(ctx context.Context, req domain.ExecutionRequest) (domain.ExecutionOutcome, error)

	// Render resolves and substitutes the template without touching the database
	Render(ctx context.Context, req domain.ExecutionRequest) (domain.Statement, error)
}
