package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hyperterse/sqlgeneric/core/application/policy"
	"github.com/hyperterse/sqlgeneric/core/domain"
	"github.com/hyperterse/sqlgeneric/core/domain/interfaces"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/logging"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/templatestore"
	"github.com/hyperterse/sqlgeneric/core/observability"
	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

// StoreFactory builds the template store addressed by one invocation's info values
type StoreFactory func(cfg templatestore.Config) interfaces.TemplateStore

// ExecutorFactory builds a pipeline over a template store
type ExecutorFactory func(store interfaces.TemplateStore) interfaces.Executor

// Settings are the handler defaults that do not come from the invocation
type Settings struct {
	// Defaults are info values used when an invocation does not carry them
	Defaults      map[string]string
	LookupTimeout time.Duration
}

// HandlerService implements the task handler used by every entry point
type HandlerService struct {
	stores    StoreFactory
	executors ExecutorFactory
	settings  Settings
	validate  *validator.Validate
}

// NewHandlerService creates a new HandlerService
func NewHandlerService(stores StoreFactory, executors ExecutorFactory, settings Settings) *HandlerService {
	return &HandlerService{
		stores:    stores,
		executors: executors,
		settings:  settings,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// invocation is the host input after trimming and type conversion
type invocation struct {
	APILocation  string `validate:"required,url"`
	APIUsername  string
	APIPassword  string
	KappSlug     string
	FormSlug     string `validate:"required"`
	TemplateName string `validate:"required"`
	Dialect      string `validate:"required"`
	Server       string `validate:"required"`
	Port         int    `validate:"min=1,max=65535"`
}

// Handle executes one invocation. Input that cannot be turned into a request
// fails under the invocation's error mode like any pipeline stage.
func (s *HandlerService) Handle(ctx context.Context, input domain.HostInput) (domain.ExecutionOutcome, error) {
	exec, req, err := s.prepare(input)
	if err != nil {
		mode := domain.ParseErrorMode(input.Parameters[domain.ParamErrorHandling])
		return policy.Apply(mode, nil, err)
	}
	return exec.Execute(ctx, req)
}

// Preview resolves and substitutes the template of one invocation without
// contacting the database
func (s *HandlerService) Preview(ctx context.Context, input domain.HostInput) (domain.Statement, error) {
	exec, req, err := s.prepare(input)
	if err != nil {
		return domain.Statement{}, err
	}
	return exec.Render(ctx, req)
}

func (s *HandlerService) prepare(input domain.HostInput) (interfaces.Executor, domain.ExecutionRequest, error) {
	log := logging.New("handler")

	info := maps.Clone(s.settings.Defaults)
	if info == nil {
		info = map[string]string{}
	}
	maps.Copy(info, input.Info)
	host := domain.HostInput{Info: info, Parameters: trimmed(input.Parameters)}
	log.Verbose(host.InfoValue(domain.InfoEnableDebugLogging) == "Yes").
		Debugf("Handler info values: %v", observability.RedactValues(info))

	inv, err := s.parse(host)
	if err != nil {
		log.Errorf("Rejected handler input: %v", err)
		return nil, domain.ExecutionRequest{}, logging.WithTag("handler", err)
	}

	values, err := ParseQueryValues(host.Parameter(domain.ParamQueryValues))
	if err != nil {
		log.Errorf("Rejected query values: %v", err)
		return nil, domain.ExecutionRequest{}, logging.WithTag("handler", err)
	}

	req, err := domain.NewExecutionRequest(domain.RequestParams{
		TemplateName: inv.TemplateName,
		Dialect:      inv.Dialect,
		Connection: domain.ConnectionInfo{
			Host:     inv.Server,
			Port:     inv.Port,
			Database: host.Parameter(domain.ParamDatabaseName),
			Credentials: domain.Credentials{
				Username: host.InfoValue(domain.InfoDatabaseUsername),
				Password: host.InfoValue(domain.InfoDatabasePassword),
			},
		},
		Action:    domain.ParseAction(host.Parameter(domain.ParamAction)),
		ErrorMode: domain.ParseErrorMode(host.Parameter(domain.ParamErrorHandling)),
		Values:    values,
		Debug:     host.InfoValue(domain.InfoEnableDebugLogging) == "Yes",
	})
	if err != nil {
		return nil, domain.ExecutionRequest{}, logging.WithTag("handler", err)
	}

	store := s.stores(templatestore.Config{
		BaseURL:  inv.APILocation,
		Username: inv.APIUsername,
		Password: inv.APIPassword,
		KappSlug: inv.KappSlug,
		FormSlug: inv.FormSlug,
		Timeout:  s.settings.LookupTimeout,
	})
	return s.executors(store), req, nil
}

func (s *HandlerService) parse(host domain.HostInput) (invocation, error) {
	inv := invocation{
		APILocation:  strings.TrimSpace(host.InfoValue(domain.InfoAPILocation)),
		APIUsername:  host.InfoValue(domain.InfoAPIUsername),
		APIPassword:  host.InfoValue(domain.InfoAPIPassword),
		KappSlug:     strings.TrimSpace(host.InfoValue(domain.InfoKappSlug)),
		FormSlug:     strings.TrimSpace(host.InfoValue(domain.InfoKappFormSlug)),
		TemplateName: host.Parameter(domain.ParamTemplateName),
		Dialect:      host.Parameter(domain.ParamJDBCDatabase),
		Server:       strings.TrimSpace(host.InfoValue(domain.InfoDatabaseServer)),
	}
	if inv.FormSlug == "" {
		inv.FormSlug = strings.TrimSpace(host.InfoValue(domain.InfoSpaceForm))
	}

	rawPort := strings.TrimSpace(host.InfoValue(domain.InfoDatabasePort))
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return invocation{}, apperrors.Newf(apperrors.ErrCodeInvalidInput, "%s '%s' is not a port number", domain.InfoDatabasePort, rawPort)
	}
	inv.Port = port

	if err := s.validate.Struct(inv); err != nil {
		return invocation{}, validationError(err)
	}
	return inv, nil
}

var fieldNames = map[string]string{
	"APILocation":  domain.InfoAPILocation,
	"FormSlug":     domain.InfoKappFormSlug,
	"TemplateName": domain.ParamTemplateName,
	"Dialect":      domain.ParamJDBCDatabase,
	"Server":       domain.InfoDatabaseServer,
	"Port":         domain.InfoDatabasePort,
}

func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.WrapError(apperrors.ErrCodeInvalidInput, "invalid handler input", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fieldNames[fe.Field()]
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", name))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s '%v' is not a URL", name, fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s '%v' is out of range", name, fe.Value()))
		}
	}
	return apperrors.NewAppError(apperrors.ErrCodeInvalidInput, "invalid handler input: "+strings.Join(msgs, "; "), nil)
}

// ParseQueryValues decodes the query_values parameter. An empty parameter
// yields no values; numbers are kept as json.Number so their literal text
// survives substitution.
func ParseQueryValues(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, apperrors.WrapError(apperrors.ErrCodeInvalidInput, "query_values must be a JSON object", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperrors.Newf(apperrors.ErrCodeInvalidInput, "query_values must be a single JSON object")
	}
	if values == nil {
		values = map[string]any{}
	}
	return values, nil
}

func trimmed(params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = strings.TrimSpace(v)
	}
	return out
}
