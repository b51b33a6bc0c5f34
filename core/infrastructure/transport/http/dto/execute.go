package dto

import "github.com/hyperterse/sqlgeneric/core/domain"

// ExecuteRequest carries one invocation: the handler info values and the
// node parameters
type ExecuteRequest struct {
	Info       map[string]string `json:"info" validate:"required"`
	Parameters map[string]string `json:"parameters" validate:"required"`
}

// HostInput converts the request to handler input
func (r ExecuteRequest) HostInput() domain.HostInput {
	return domain.HostInput{Info: r.Info, Parameters: r.Parameters}
}

// RenderResponse is the substituted statement of a dry run
type RenderResponse struct {
	Success bool   `json:"success"`
	Action  string `json:"action"`
	SQL     string `json:"sql"`
	Binds   []any  `json:"binds"`
}

// NewRenderResponse builds the response for stmt
func NewRenderResponse(stmt domain.Statement) RenderResponse {
	binds := stmt.Binds
	if binds == nil {
		binds = []any{}
	}
	return RenderResponse{
		Success: true,
		Action:  stmt.Action.String(),
		SQL:     stmt.SQL,
		Binds:   binds,
	}
}
