package domain

// Info value and parameter names understood by the handler
const (
	InfoDatabaseServer     = "database_server"
	InfoDatabasePort       = "database_port"
	InfoDatabaseUsername   = "database_username"
	InfoDatabasePassword   = "database_password"
	InfoAPILocation        = "kinetic_api_location"
	InfoAPIUsername        = "kinetic_api_username"
	InfoAPIPassword        = "kinetic_api_password"
	InfoKappSlug           = "kapp_slug"
	InfoKappFormSlug       = "kapp_form_slug"
	InfoSpaceForm          = "space_form"
	InfoEnableDebugLogging = "enable_debug_logging"

	ParamTemplateName  = "template_name"
	ParamDatabaseName  = "dbname"
	ParamJDBCDatabase  = "jdbc_database"
	ParamAction        = "action"
	ParamQueryValues   = "query_values"
	ParamErrorHandling = "error_handling"
)

// HostInput is one invocation as delivered by the task engine: handler info
// values (configuration and secrets) and node parameters.
type HostInput struct {
	Info       map[string]string `yaml:"info" json:"info"`
	Parameters map[string]string `yaml:"parameters" json:"parameters"`
}

// InfoValue returns the named info value or ""
func (h HostInput) InfoValue(name string) string {
	return h.Info[name]
}

// Parameter returns the named parameter or ""
func (h HostInput) Parameter(name string) string {
	return h.Parameters[name]
}
