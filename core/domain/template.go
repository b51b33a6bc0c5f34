package domain

// Template is a stored SQL text with {{key}} placeholders. It is fetched per
// invocation and never cached.
type Template struct {
	Name string
	Body string
}

// Statement is a template after placeholder substitution. In fetch mode
// SQL carries one "?" marker per entry of Binds, in order; in run mode Binds
// is empty and every value is inlined.
type Statement struct {
	SQL    string
	Binds  []any
	Action Action
}
