package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/hyperterse/sqlgeneric/core/infrastructure/transport/http/dto"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

// DecodeAndValidate decodes the JSON request body into dst and validates
// it. Field failures are returned as details alongside the error.
func DecodeAndValidate(r *http.Request, dst any) ([]dto.ErrorDetail, error) {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if err := validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return nil, err
		}
		details := make([]dto.ErrorDetail, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, dto.ErrorDetail{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Message: fmt.Sprintf("%s failed the '%s' check", fe.Field(), fe.Tag()),
			})
		}
		return details, errors.New("validation failed")
	}
	return nil, nil
}
