package domain

import (
	"maps"
	"strings"

	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

// Action selects how the statement is executed
type Action int

const (
	// ActionFetch binds values positionally and returns rows
	ActionFetch Action = iota
	// ActionRun inlines values as literals and returns a status
	ActionRun
)

// ParseAction maps the host's action parameter. Only "fetch" fetches; every
// other value runs the statement.
func ParseAction(value string) Action {
	if strings.TrimSpace(value) == "fetch" {
		return ActionFetch
	}
	return ActionRun
}

func (a Action) String() string {
	if a == ActionFetch {
		return "fetch"
	}
	return "run"
}

// ErrorMode selects what happens to the first failure of an invocation
type ErrorMode int

const (
	// ErrorModeCapture records the failure in the outcome
	ErrorModeCapture ErrorMode = iota
	// ErrorModeRaise propagates the failure to the caller
	ErrorModeRaise
)

// RaiseErrorValue is the error_handling value that selects ErrorModeRaise
const RaiseErrorValue = "Raise Error"

// ParseErrorMode maps the host's error_handling parameter
func ParseErrorMode(value string) ErrorMode {
	if strings.TrimSpace(value) == RaiseErrorValue {
		return ErrorModeRaise
	}
	return ErrorModeCapture
}

func (m ErrorMode) String() string {
	if m == ErrorModeRaise {
		return "raise"
	}
	return "capture"
}

// Credentials holds database login details
type Credentials struct {
	Username string
	Password string
}

// ConnectionInfo identifies the database to execute against
type ConnectionInfo struct {
	Host        string
	Port        int
	Database    string
	Credentials Credentials
}

// RequestParams collects the fields of an ExecutionRequest before validation
type RequestParams struct {
	TemplateName string
	Dialect      string
	Connection   ConnectionInfo
	Action       Action
	ErrorMode    ErrorMode
	Values       map[string]any
	Debug        bool
}

// ExecutionRequest describes one invocation. It is built once, passed by
// value and never mutated; Values returns a copy of the caller's values.
type ExecutionRequest struct {
	templateName string
	dialect      string
	connection   ConnectionInfo
	action       Action
	errorMode    ErrorMode
	values       map[string]any
	debug        bool
}

// NewExecutionRequest validates params and builds an ExecutionRequest.
// The dialect key is kept verbatim; it is resolved by the pipeline.
func NewExecutionRequest(params RequestParams) (ExecutionRequest, error) {
	if strings.TrimSpace(params.TemplateName) == "" {
		return ExecutionRequest{}, apperrors.Newf(apperrors.ErrCodeInvalidInput, "template name is required")
	}
	if strings.TrimSpace(params.Dialect) == "" {
		return ExecutionRequest{}, apperrors.Newf(apperrors.ErrCodeInvalidInput, "database dialect is required")
	}
	if strings.TrimSpace(params.Connection.Host) == "" {
		return ExecutionRequest{}, apperrors.Newf(apperrors.ErrCodeInvalidInput, "database server is required")
	}
	if params.Connection.Port < 1 || params.Connection.Port > 65535 {
		return ExecutionRequest{}, apperrors.Newf(apperrors.ErrCodeInvalidInput, "database port %d is out of range", params.Connection.Port)
	}

	values := maps.Clone(params.Values)
	if values == nil {
		values = map[string]any{}
	}

	return ExecutionRequest{
		templateName: params.TemplateName,
		dialect:      params.Dialect,
		connection:   params.Connection,
		action:       params.Action,
		errorMode:    params.ErrorMode,
		values:       values,
		debug:        params.Debug,
	}, nil
}

func (r ExecutionRequest) TemplateName() string       { return r.templateName }
func (r ExecutionRequest) Dialect() string            { return r.dialect }
func (r ExecutionRequest) Connection() ConnectionInfo { return r.connection }
func (r ExecutionRequest) Action() Action             { return r.action }
func (r ExecutionRequest) ErrorMode() ErrorMode       { return r.errorMode }
func (r ExecutionRequest) Debug() bool                { return r.debug }

// Values returns a copy of the named placeholder values
func (r ExecutionRequest) Values() map[string]any {
	return maps.Clone(r.values)
}
