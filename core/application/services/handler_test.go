package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hyperterse/sqlgeneric/core/application/services"
	"github.com/hyperterse/sqlgeneric/core/domain"
	"github.com/hyperterse/sqlgeneric/core/domain/interfaces"
	"github.com/hyperterse/sqlgeneric/core/domain/interfaces/mocks"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/templatestore"
	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

func heroInput() domain.HostInput {
	return domain.HostInput{
		Info: map[string]string{
			domain.InfoDatabaseServer:     "db.internal",
			domain.InfoDatabasePort:       " 5432 ",
			domain.InfoDatabaseUsername:   "app",
			domain.InfoDatabasePassword:   "secret",
			domain.InfoAPILocation:        "https://space.example.com/app/api/v1",
			domain.InfoAPIUsername:        "integration",
			domain.InfoAPIPassword:        "hunter2",
			domain.InfoKappSlug:           "admin",
			domain.InfoKappFormSlug:       "sql-query-template",
			domain.InfoEnableDebugLogging: "Yes",
		},
		Parameters: map[string]string{
			domain.ParamTemplateName:  " Hero by secret id ",
			domain.ParamDatabaseName:  "heroes",
			domain.ParamJDBCDatabase:  "postgresql",
			domain.ParamAction:        "fetch",
			domain.ParamQueryValues:   `{"secret_id":"superman","power":9000}`,
			domain.ParamErrorHandling: "Raise Error",
		},
	}
}

type harness struct {
	service  *services.HandlerService
	executor *mocks.MockExecutor
	store    *mocks.MockTemplateStore
	stores   []templatestore.Config
}

func newHarness(t *testing.T, settings services.Settings) *harness {
	h := &harness{
		executor: mocks.NewMockExecutor(t),
		store:    mocks.NewMockTemplateStore(t),
	}
	h.service = services.NewHandlerService(
		func(cfg templatestore.Config) interfaces.TemplateStore {
			h.stores = append(h.stores, cfg)
			return h.store
		},
		func(store interfaces.TemplateStore) interfaces.Executor {
			assert.Same(t, h.store, store)
			return h.executor
		},
		settings,
	)
	return h
}

func TestHandleBuildsRequest(t *testing.T) {
	h := newHarness(t, services.Settings{LookupTimeout: 10 * time.Second})

	var captured domain.ExecutionRequest
	h.executor.On("Execute", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(domain.ExecutionRequest) }).
		Return(domain.Succeeded(domain.SuccessIndicator), nil)

	outcome, err := h.service.Handle(context.Background(), heroInput())
	require.NoError(t, err)
	assert.Equal(t, domain.SuccessIndicator, outcome.Payload)

	assert.Equal(t, "Hero by secret id", captured.TemplateName())
	assert.Equal(t, "postgresql", captured.Dialect())
	assert.Equal(t, domain.ActionFetch, captured.Action())
	assert.Equal(t, domain.ErrorModeRaise, captured.ErrorMode())
	assert.True(t, captured.Debug())
	assert.Equal(t, domain.ConnectionInfo{
		Host:        "db.internal",
		Port:        5432,
		Database:    "heroes",
		Credentials: domain.Credentials{Username: "app", Password: "secret"},
	}, captured.Connection())
	assert.Equal(t, map[string]any{"secret_id": "superman", "power": json.Number("9000")}, captured.Values())

	require.Len(t, h.stores, 1)
	assert.Equal(t, templatestore.Config{
		BaseURL:  "https://space.example.com/app/api/v1",
		Username: "integration",
		Password: "hunter2",
		KappSlug: "admin",
		FormSlug: "sql-query-template",
		Timeout:  10 * time.Second,
	}, h.stores[0])
}

func TestHandleUsesDefaultsAndFallbacks(t *testing.T) {
	h := newHarness(t, services.Settings{Defaults: map[string]string{
		domain.InfoAPILocation:    "https://defaults.example.com/app/api/v1",
		domain.InfoDatabaseServer: "default-db",
	}})

	input := heroInput()
	delete(input.Info, domain.InfoAPILocation)
	delete(input.Info, domain.InfoKappFormSlug)
	input.Info[domain.InfoSpaceForm] = "templates"
	input.Parameters[domain.ParamAction] = "update"
	input.Parameters[domain.ParamErrorHandling] = "Error Message"
	input.Parameters[domain.ParamQueryValues] = ""

	var captured domain.ExecutionRequest
	h.executor.On("Execute", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(domain.ExecutionRequest) }).
		Return(domain.Succeeded(domain.SuccessIndicator), nil)

	_, err := h.service.Handle(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", captured.Connection().Host, "invocation info wins over defaults")
	assert.Equal(t, domain.ActionRun, captured.Action())
	assert.Equal(t, domain.ErrorModeCapture, captured.ErrorMode())
	assert.Empty(t, captured.Values())
	require.Len(t, h.stores, 1)
	assert.Equal(t, "https://defaults.example.com/app/api/v1", h.stores[0].BaseURL)
	assert.Equal(t, "templates", h.stores[0].FormSlug)
}

func TestHandleRejectsInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.HostInput)
		message string
	}{
		{
			name:    "port not a number",
			mutate:  func(in *domain.HostInput) { in.Info[domain.InfoDatabasePort] = "fifty" },
			message: "database_port 'fifty' is not a port number",
		},
		{
			name:    "port out of range",
			mutate:  func(in *domain.HostInput) { in.Info[domain.InfoDatabasePort] = "70000" },
			message: "invalid handler input: database_port '70000' is out of range",
		},
		{
			name:    "missing template name",
			mutate:  func(in *domain.HostInput) { in.Parameters[domain.ParamTemplateName] = "  " },
			message: "invalid handler input: template_name is required",
		},
		{
			name:    "api location not a url",
			mutate:  func(in *domain.HostInput) { in.Info[domain.InfoAPILocation] = "not a url" },
			message: "invalid handler input: kinetic_api_location 'not a url' is not a URL",
		},
		{
			name:    "query values not an object",
			mutate:  func(in *domain.HostInput) { in.Parameters[domain.ParamQueryValues] = `["superman"]` },
			message: "query_values must be a JSON object: json: cannot unmarshal array",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, services.Settings{})
			input := heroInput()
			tt.mutate(&input)

			outcome, err := h.service.Handle(context.Background(), input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput))
			assert.Equal(t, domain.ExecutionOutcome{}, outcome)
			assert.Empty(t, h.stores)
		})
	}
}

func TestHandleCapturesInputErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.HostInput)
		message string
	}{
		{
			name:    "blank port",
			mutate:  func(in *domain.HostInput) { in.Info[domain.InfoDatabasePort] = "" },
			message: "database_port '' is not a port number",
		},
		{
			name:    "missing template name",
			mutate:  func(in *domain.HostInput) { in.Parameters[domain.ParamTemplateName] = "" },
			message: "invalid handler input: template_name is required",
		},
		{
			name: "missing form slug",
			mutate: func(in *domain.HostInput) {
				delete(in.Info, domain.InfoKappFormSlug)
			},
			message: "invalid handler input: kapp_form_slug is required",
		},
		{
			name:    "query values not an object",
			mutate:  func(in *domain.HostInput) { in.Parameters[domain.ParamQueryValues] = "[1]" },
			message: "query_values must be a JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, services.Settings{})
			input := heroInput()
			input.Parameters[domain.ParamErrorHandling] = "Error Message"
			tt.mutate(&input)

			outcome, err := h.service.Handle(context.Background(), input)
			require.NoError(t, err)
			assert.True(t, outcome.IsFailure())
			assert.Nil(t, outcome.Payload)
			assert.Contains(t, outcome.ErrorMessage, tt.message)
			assert.Empty(t, h.stores)
		})
	}
}

func TestPreviewReturnsInputErrors(t *testing.T) {
	h := newHarness(t, services.Settings{})
	input := heroInput()
	input.Parameters[domain.ParamErrorHandling] = "Error Message"
	input.Info[domain.InfoDatabasePort] = "fifty"

	_, err := h.service.Preview(context.Background(), input)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput))
}

func TestPreview(t *testing.T) {
	h := newHarness(t, services.Settings{})
	stmt := domain.Statement{SQL: "SELECT * FROM heroes WHERE secret_id = ?", Binds: []any{"superman"}}
	h.executor.On("Render", mock.Anything, mock.Anything).Return(stmt, nil)

	got, err := h.service.Preview(context.Background(), heroInput())
	require.NoError(t, err)
	assert.Equal(t, stmt, got)
}

func TestParseQueryValues(t *testing.T) {
	values, err := services.ParseQueryValues(`{"n":12.50,"tags":["a"],"nested":{"k":true},"none":null}`)
	require.NoError(t, err)
	assert.Equal(t, json.Number("12.50"), values["n"])
	assert.Equal(t, []any{"a"}, values["tags"])
	assert.Equal(t, map[string]any{"k": true}, values["nested"])
	assert.Contains(t, values, "none")
	assert.Nil(t, values["none"])

	values, err = services.ParseQueryValues("   ")
	require.NoError(t, err)
	assert.Empty(t, values)

	_, err = services.ParseQueryValues(`{"a":1} {"b":2}`)
	assert.Error(t, err)
}
