package policy

import (
	"fmt"

	"github.com/hyperterse/sqlgeneric/core/domain"
	apperrors "github.com/hyperterse/sqlgeneric/core/shared/errors"
)

// Apply folds a pipeline result into an outcome according to mode.
//
// Without an error the payload becomes a successful outcome in either mode.
// Under raise the error is returned unchanged and no outcome is produced;
// under capture the error message becomes the outcome and the payload is
// discarded.
func Apply(mode domain.ErrorMode, payload any, err error) (domain.ExecutionOutcome, error) {
	if err == nil {
		return domain.Succeeded(payload), nil
	}
	switch mode {
	case domain.ErrorModeRaise:
		return domain.ExecutionOutcome{}, err
	case domain.ErrorModeCapture:
		return domain.Failed(err.Error()), nil
	default:
		return domain.ExecutionOutcome{}, fmt.Errorf("unknown error mode %d: %w", int(mode), err)
	}
}

// Guard runs fn and converts a panic into an internal error, so a failing
// stage reaches Apply like any other error
func Guard(fn func() (any, error)) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload = nil
			err = apperrors.NewAppError(apperrors.ErrCodeInternalError, fmt.Sprintf("unexpected failure: %v", r), nil)
		}
	}()
	return fn()
}
