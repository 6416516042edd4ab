// Package apperr define el error estructurado que los handlers traducen a respuestas HTTP.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Code string

const (
	CodeValidation     Code = "VALIDATION"      // 400
	CodeInvalidRequest Code = "INVALID_REQUEST" // 400
	CodeNotFound       Code = "NOT_FOUND"       // 404
	CodeInternal       Code = "INTERNAL"        // 500
)

// FieldError es un problema puntual en un campo del body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Code    Code
	Status  int
	Message string
	Fields  []FieldError
	Details map[string]any

	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func NewValidation(fields []FieldError) *Error {
	return &Error{
		Code:    CodeValidation,
		Status:  http.StatusBadRequest,
		Message: "Validation error",
		Fields:  fields,
	}
}

func NewInvalidRequest(msg string) *Error {
	return &Error{
		Code:    CodeInvalidRequest,
		Status:  http.StatusBadRequest,
		Message: msg,
	}
}

func NewNotFound(what string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Status:  http.StatusNotFound,
		Message: what + " not found",
	}
}

func NewInternal(err error) *Error {
	return &Error{
		Code:    CodeInternal,
		Status:  http.StatusInternalServerError,
		Message: "internal error",
		cause:   err,
	}
}

// WithDetails agrega datos extra que se serializan junto al mensaje.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// Is indica si err (o alguno en su cadena) es un *Error con ese código.
func Is(err error, code Code) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// StatusOf devuelve el status HTTP asociado; 500 si no es un *Error.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// FromValidation convierte el resultado de ozzo-validation en un *Error de validación.
// Devuelve nil si err es nil. Los campos salen ordenados para respuestas estables.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		var internal validation.InternalError
		if errors.As(err, &internal) {
			return NewInternal(err)
		}
		return NewValidation([]FieldError{{Field: "", Message: err.Error()}})
	}

	fields := make([]FieldError, 0, len(verrs))
	for name, fe := range verrs {
		if fe == nil {
			continue
		}
		fields = append(fields, FieldError{Field: name, Message: fe.Error()})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })

	return NewValidation(fields)
}

// Body arma el payload JSON de error: {"message":..., "errors":[...], ...details}.
func Body(err error) map[string]any {
	var ae *Error
	if !errors.As(err, &ae) {
		return map[string]any{"message": "internal error"}
	}

	out := map[string]any{"message": ae.Message}
	for k, v := range ae.Details {
		out[k] = v
	}
	if len(ae.Fields) > 0 {
		out["errors"] = ae.Fields
	}
	return out
}
