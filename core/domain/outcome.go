package domain

// SuccessIndicator is the payload returned by a statement run without rows
const SuccessIndicator = "Successful"

// ExecutionOutcome is what an invocation produces when it does not raise.
// Exactly one of Payload and ErrorMessage carries meaning.
type ExecutionOutcome struct {
	Payload      any
	ErrorMessage string
}

// Succeeded builds the outcome of a successful invocation
func Succeeded(payload any) ExecutionOutcome {
	return ExecutionOutcome{Payload: payload}
}

// Failed builds the outcome of a captured failure
func Failed(message string) ExecutionOutcome {
	return ExecutionOutcome{ErrorMessage: message}
}

// IsFailure reports whether the outcome records a captured failure
func (o ExecutionOutcome) IsFailure() bool {
	return o.ErrorMessage != ""
}
