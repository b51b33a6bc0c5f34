package executor

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/hyperterse/sqlgeneric/core/application/policy"
	"github.com/hyperterse/sqlgeneric/core/application/substitutor"
	"github.com/hyperterse/sqlgeneric/core/dialect"
	"github.com/hyperterse/sqlgeneric/core/domain"
	"github.com/hyperterse/sqlgeneric/core/domain/interfaces"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/logging"
	"github.com/hyperterse/sqlgeneric/core/observability"
	sharedctx "github.com/hyperterse/sqlgeneric/core/shared/context"
	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

// Executor implements the Executor interface
type Executor struct {
	store        interfaces.TemplateStore
	prober       interfaces.Prober
	engine       interfaces.Engine
	probeTimeout time.Duration
}

// NewExecutor creates a pipeline over the given stages
func NewExecutor(store interfaces.TemplateStore, prober interfaces.Prober, engine interfaces.Engine, probeTimeout time.Duration) interfaces.Executor {
	return &Executor{
		store:        store,
		prober:       prober,
		engine:       engine,
		probeTimeout: probeTimeout,
	}
}

// Execute runs one invocation.
//
// The dialect is checked first and an unknown or unimplemented dialect is
// returned in every error mode, before any network activity. The remaining
// stages run in order and stop at the first failure, which the request's
// error mode then propagates or records.
func (e *Executor) Execute(ctx context.Context, req domain.ExecutionRequest) (domain.ExecutionOutcome, error) {
	start := time.Now()
	ctx, log := e.invocationLogger(ctx, req)

	conn := req.Connection()
	ctx, span := observability.StartSpan(ctx, "sqlgeneric.execute",
		attribute.String(observability.AttrRequestID, sharedctx.GetRequestID(ctx)),
		attribute.String(observability.AttrTemplateName, req.TemplateName()),
		attribute.String(observability.AttrDialect, req.Dialect()),
		attribute.String(observability.AttrAction, req.Action().String()),
		attribute.String(observability.AttrErrorMode, req.ErrorMode().String()),
		attribute.String(observability.AttrServerAddress, conn.Host),
		attribute.Int(observability.AttrServerPort, conn.Port),
	)
	if traceID := observability.TraceID(ctx); traceID != "" {
		log = log.With("trace_id", traceID)
	}

	log.Infof("Executing template: %s", req.TemplateName())

	cfg, err := dialect.Lookup(req.Dialect())
	if err != nil {
		log.Errorf("Dialect rejected: %v", err)
		span.SetAttributes(attribute.String(observability.AttrResult, "raised"))
		observability.EndSpan(span, err)
		observability.RecordInvocation(ctx, req.Dialect(), req.Action().String(), "raised", elapsedMS(start))
		return domain.ExecutionOutcome{}, logging.WithTag("dialect", err)
	}

	payload, err := policy.Guard(func() (any, error) {
		return e.run(ctx, log, cfg, req)
	})
	outcome, err := policy.Apply(req.ErrorMode(), payload, err)

	result := "success"
	switch {
	case err != nil:
		result = "raised"
		log.Errorf("Template execution failed: %v", err)
	case outcome.IsFailure():
		result = "captured"
		log.Warnf("Template execution failed, error captured: %s", outcome.ErrorMessage)
	default:
		log.Infof("Template execution completed")
	}

	span.SetAttributes(attribute.String(observability.AttrResult, result))
	observability.EndSpan(span, err)
	observability.RecordInvocation(ctx, cfg.Dialect.String(), req.Action().String(), result, elapsedMS(start))
	return outcome, err
}

// Render resolves and substitutes the request's template. The database is
// neither probed nor contacted, and failures are always returned.
func (e *Executor) Render(ctx context.Context, req domain.ExecutionRequest) (domain.Statement, error) {
	ctx, log := e.invocationLogger(ctx, req)

	cfg, err := dialect.Lookup(req.Dialect())
	if err != nil {
		return domain.Statement{}, logging.WithTag("dialect", err)
	}

	tpl, err := e.resolve(ctx, log, req)
	if err != nil {
		return domain.Statement{}, err
	}
	return e.substitute(ctx, log, tpl, cfg, req)
}

func (e *Executor) run(ctx context.Context, log interfaces.Logger, cfg dialect.Config, req domain.ExecutionRequest) (any, error) {
	tpl, err := e.resolve(ctx, log, req)
	if err != nil {
		return nil, err
	}

	stmt, err := e.substitute(ctx, log, tpl, cfg, req)
	if err != nil {
		return nil, err
	}

	conn := req.Connection()
	if err := e.probe(ctx, log, conn); err != nil {
		return nil, err
	}

	return stage(ctx, "execute", "engine", func(ctx context.Context) (any, error) {
		payload, err := e.engine.Execute(ctx, cfg, conn, stmt)
		if err != nil {
			return nil, err
		}
		if records, ok := payload.([]domain.Record); ok {
			log.Debugf("Query returned %d row(s)", len(records))
		}
		return payload, nil
	})
}

func (e *Executor) resolve(ctx context.Context, log interfaces.Logger, req domain.ExecutionRequest) (domain.Template, error) {
	return stage(ctx, "resolve", "templatestore", func(ctx context.Context) (domain.Template, error) {
		log.Debugf("Resolving template '%s'", req.TemplateName())
		return e.store.Resolve(ctx, req.TemplateName())
	})
}

func (e *Executor) substitute(ctx context.Context, log interfaces.Logger, tpl domain.Template, cfg dialect.Config, req domain.ExecutionRequest) (domain.Statement, error) {
	return stage(ctx, "substitute", "substitutor", func(context.Context) (domain.Statement, error) {
		log.Debugf("Template placeholders: %v", substitutor.ExtractPlaceholders(tpl.Body))
		stmt, err := substitutor.Substitute(tpl.Body, req.Values(), req.Action(), cfg)
		if err != nil {
			return domain.Statement{}, err
		}
		log.Debugf("The SQL query executed: %s", stmt.SQL)
		return stmt, nil
	})
}

func (e *Executor) probe(ctx context.Context, log interfaces.Logger, conn domain.ConnectionInfo) error {
	_, err := stage(ctx, "probe", "probe", func(ctx context.Context) (struct{}, error) {
		result := e.prober.Probe(ctx, conn.Host, conn.Port, e.probeTimeout)
		if result.Status == domain.ProbeOpen {
			log.Debugf("Port %d at server '%s' is open.", conn.Port, conn.Host)
			return struct{}{}, nil
		}
		log.Debugf("Port %d at server '%s' is %s: %v", conn.Port, conn.Host, result.Status, result.Err)
		return struct{}{}, apperrors.Newf(apperrors.ErrCodeConnectivity,
			"Port %d at server '%s' is CLOSED or is not accessible.", conn.Port, conn.Host)
	})
	return err
}

func (e *Executor) invocationLogger(ctx context.Context, req domain.ExecutionRequest) (context.Context, interfaces.Logger) {
	ctx, requestID := sharedctx.EnsureRequestID(ctx)
	ctx = sharedctx.WithTemplate(ctx, req.TemplateName())
	ctx = sharedctx.WithDebug(ctx, req.Debug() || sharedctx.IsDebug(ctx))

	log := logging.New("executor").
		With("request_id", requestID).
		With("template", req.TemplateName()).
		Verbose(sharedctx.IsDebug(ctx))
	return ctx, log
}

// stage runs one pipeline step in its own span; a failure is tagged with the
// logger tag of the component that produced it
func stage[T any](ctx context.Context, name, tag string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "sqlgeneric."+name,
		attribute.String(observability.AttrStage, name))

	value, err := fn(ctx)
	observability.EndSpan(span, err)
	observability.RecordStage(ctx, name, err == nil, elapsedMS(start))
	if err != nil {
		var zero T
		return zero, logging.WithTag(tag, err)
	}
	return value, nil
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
