package templatestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hyperterse/sqlgeneric/core/domain"
	"github.com/hyperterse/sqlgeneric/core/infrastructure/logging"
	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

const (
	// DatastoreKapp addresses forms that live outside any kapp
	DatastoreKapp = "datastore"

	templateNameField = "Template Name"
	sqlQueryField     = "SQL Query"
	maxErrorBody      = 512
)

// Config addresses the submissions API holding the templates
type Config struct {
	// BaseURL is the API root, e.g. https://space.example.com/app/api/v1
	BaseURL  string
	Username string
	Password string
	// KappSlug selects the kapp; empty or "datastore" uses the datastore
	KappSlug string
	FormSlug string
	Timeout  time.Duration
}

// Kinetic resolves templates from form submissions indexed by template name
type Kinetic struct {
	config Config
	client *http.Client
}

type submissionsResponse struct {
	Submissions []struct {
		Values map[string]any `json:"values"`
	} `json:"submissions"`
}

// NewKinetic creates a template store client
func NewKinetic(config Config) *Kinetic {
	return &Kinetic{
		config: config,
		client: &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// WithHTTPClient replaces the HTTP client used for lookups
func (k *Kinetic) WithHTTPClient(client *http.Client) *Kinetic {
	k.client = client
	return k
}

// SubmissionsURL builds the lookup URL for a template name
func (k *Kinetic) SubmissionsURL(name string) string {
	base := strings.TrimRight(k.config.BaseURL, "/")
	form := url.PathEscape(k.config.FormSlug)

	var path string
	if k.config.KappSlug == "" || k.config.KappSlug == DatastoreKapp {
		path = "/datastore/forms/" + form + "/submissions"
	} else {
		path = "/kapps/" + url.PathEscape(k.config.KappSlug) + "/forms/" + form + "/submissions"
	}

	query := url.Values{}
	query.Set("index", "values["+templateNameField+"]")
	query.Set("q", fmt.Sprintf(`values[%s]="%s"`, templateNameField, name))
	query.Set("include", "values")
	return base + path + "?" + query.Encode()
}

// Resolve fetches the SQL Query of the single submission named name
func (k *Kinetic) Resolve(ctx context.Context, name string) (domain.Template, error) {
	log := logging.New("templatestore")

	route := k.SubmissionsURL(name)
	log.Debugf("Calling Kinetic Platform at: %s", route)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, route, nil)
	if err != nil {
		return domain.Template{}, apperrors.WrapError(apperrors.ErrCodeTemplateResolution, "invalid template lookup request", err)
	}
	req.SetBasicAuth(k.config.Username, k.config.Password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := k.client.Do(req)
	if err != nil {
		return domain.Template{}, apperrors.WrapError(apperrors.ErrCodeTemplateResolution, "template lookup failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.Template{}, apperrors.Newf(apperrors.ErrCodeTemplateResolution,
			"template lookup returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload submissionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.Template{}, apperrors.WrapError(apperrors.ErrCodeTemplateResolution, "template lookup returned an unreadable response", err)
	}

	switch len(payload.Submissions) {
	case 0:
		return domain.Template{}, apperrors.Newf(apperrors.ErrCodeTemplateNotFound,
			"No submissions found with a Template Name of '%s'", name)
	case 1:
	default:
		return domain.Template{}, apperrors.Newf(apperrors.ErrCodeTemplateNotFound,
			"%d submissions found with a Template Name of '%s'", len(payload.Submissions), name)
	}

	body, _ := payload.Submissions[0].Values[sqlQueryField].(string)
	if strings.TrimSpace(body) == "" {
		return domain.Template{}, apperrors.Newf(apperrors.ErrCodeTemplateResolution,
			"The query was nil or empty. Check that the '%s' form has the %s field.", k.config.FormSlug, sqlQueryField)
	}

	log.Debugf("Resolved template '%s'", name)
	return domain.Template{Name: name, Body: body}, nil
}
