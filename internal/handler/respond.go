package handler

import (
	"errors"
	"log"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	customError "github.com/loanworks/loan-engine/pkg/errors"
	"github.com/loanworks/loan-engine/pkg/response"
)

// newValidator builds the request validator with decimal fields exposed as
// floats, so standard gt/gte tags apply to shopspring decimals.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			value, _ := d.Float64()
			return value
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// respondError maps the engine's error taxonomy onto HTTP statuses. Untyped
// and persistence errors surface as a generic 500 without leaking internals.
func respondError(w http.ResponseWriter, err error) {
	var businessErr *customError.BusinessError
	if !errors.As(err, &businessErr) {
		log.Printf("unexpected error: %v", err)
		response.InternalServerError(w, "internal server error")
		return
	}

	switch businessErr.Code {
	case customError.ErrCodeValidation:
		response.Error(w, http.StatusBadRequest, businessErr.Code, businessErr.Message)
	case customError.ErrCodeNotFound:
		response.Error(w, http.StatusNotFound, businessErr.Code, businessErr.Message)
	case customError.ErrCodeAlreadyPaid, customError.ErrCodeEmailExists:
		response.Error(w, http.StatusConflict, businessErr.Code, businessErr.Message)
	case customError.ErrCodeNotEligible:
		response.Error(w, http.StatusUnprocessableEntity, businessErr.Code, businessErr.Message)
	case customError.ErrCodeEmailNotVerified:
		response.Error(w, http.StatusForbidden, businessErr.Code, businessErr.Message)
	default:
		log.Printf("storage error: %v", businessErr)
		response.InternalServerError(w, "internal server error")
	}
}
