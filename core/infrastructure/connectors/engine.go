package connectors

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/hyperterse/sqlgeneric/core/dialect"
	"github.com/hyperterse/sqlgeneric/core/domain"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/logging"
	sharedctx "github.com/hyperterse/sqlgeneric/core/shared/context"
	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

// Opener opens a database handle for a driver and DSN
type Opener func(driverName, dataSourceName string) (*sqlx.DB, error)

// SQLEngine executes statements over a database handle opened for the call
// and closed before it returns. Nothing is pooled between calls.
type SQLEngine struct {
	open Opener
}

// NewSQLEngine creates an engine using the registered database/sql drivers
func NewSQLEngine() *SQLEngine {
	return &SQLEngine{open: sqlx.Open}
}

// WithOpener replaces how database handles are opened
func (e *SQLEngine) WithOpener(open Opener) *SQLEngine {
	e.open = open
	return e
}

// Execute runs stmt against the database described by cfg and conn.
//
// Fetch statements have their "?" markers rebound to the dialect's style
// and return the rows as []domain.Record. Other statements are executed
// as-is and return domain.SuccessIndicator. The caller's cancellation does
// not reach the driver: neither the handshake nor the statement is bounded.
func (e *SQLEngine) Execute(ctx context.Context, cfg dialect.Config, conn domain.ConnectionInfo, stmt domain.Statement) (payload any, err error) {
	ctx = context.WithoutCancel(ctx)
	log := logging.New("engine:"+cfg.Dialect.String()).
		With("request_id", sharedctx.GetRequestID(ctx)).
		With("template", sharedctx.GetTemplate(ctx)).
		Verbose(sharedctx.IsDebug(ctx))

	dsn, err := cfg.ConnectionString(conn)
	if err != nil {
		return nil, err
	}

	log.Debugf("Opening %s connection to %s:%d", cfg.Dialect, conn.Host, conn.Port)
	db, err := e.open(cfg.DriverName, dsn)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeDatabase, fmt.Sprintf("failed to open %s connection", cfg.Dialect), err)
	}
	// One connection for the session statements and the statement itself
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	defer func() {
		log.Debugf("Closing the database connection that was opened")
		if cerr := db.Close(); cerr != nil {
			log.Warnf("Failed to close database connection: %v", cerr)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = apperrors.Newf(apperrors.ErrCodeDatabase, "database driver failed: %v", r)
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeDatabase,
			fmt.Sprintf("failed to connect to %s database '%s'", cfg.Dialect, conn.Database), err)
	}

	for _, session := range cfg.SessionStatements {
		if _, err := db.ExecContext(ctx, session); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrCodeDatabase, "failed to prepare database session", err)
		}
	}

	switch stmt.Action {
	case domain.ActionFetch:
		return fetch(ctx, db, cfg.Rebind(stmt.SQL), stmt.Binds)
	case domain.ActionRun:
		if _, err := db.ExecContext(ctx, stmt.SQL); err != nil {
			return nil, apperrors.WrapError(apperrors.ErrCodeDatabase, "statement failed", err)
		}
		return domain.SuccessIndicator, nil
	default:
		return nil, apperrors.Newf(apperrors.ErrCodeInternalError, "unknown action %d", int(stmt.Action))
	}
}

func fetch(ctx context.Context, db *sqlx.DB, query string, binds []any) ([]domain.Record, error) {
	rows, err := db.QueryxContext(ctx, query, bindArgs(binds)...)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeDatabase, "query failed", err)
	}
	defer rows.Close()

	records, err := collectRecords(rows)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeDatabase, "failed to read query results", err)
	}
	return records, nil
}
