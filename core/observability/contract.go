package observability

import (
	"strings"
)

const (
	AttrRequestID      = "request.id"
	AttrTemplateName   = "template.name"
	AttrDialect        = "db.system"
	AttrAction         = "sqlgeneric.action"
	AttrErrorMode      = "sqlgeneric.error_mode"
	AttrStage          = "sqlgeneric.stage"
	AttrResult         = "sqlgeneric.result"
	AttrServerAddress  = "server.address"
	AttrServerPort     = "server.port"
	AttrHTTPMethod     = "http.request.method"
	AttrHTTPRoute      = "http.route"
	AttrHTTPStatusCode = "http.response.status_code"
	AttrErrorType      = "error.type"
)

var secretKeySubstrings = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"api_key",
	"apikey",
	"authorization",
	"connection_string",
	"dsn",
}

// RedactAttributeValue masks values for known-sensitive attribute keys.
func RedactAttributeValue(key string, value string) string {
	lower := strings.ToLower(key)
	for _, needle := range secretKeySubstrings {
		if strings.Contains(lower, needle) {
			return "[REDACTED]"
		}
	}
	return value
}
