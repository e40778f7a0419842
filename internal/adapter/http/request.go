// Package http provides the HTTP handler layer for the listings API.
// It handles request parsing, validation, response formatting, and error mapping.
package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// maxQueryLength bounds serialized filter queries accepted from clients.
const maxQueryLength = 2048

// OpenPageRequest represents the request body for opening a page session.
type OpenPageRequest struct {
	// Kind is the page to open: deals or destinations
	Kind string `json:"kind" validate:"required,oneof=deals destinations" example:"deals"`

	// Query is the initial location query (e.g., "dealType=hotel&sortBy=price_asc")
	Query string `json:"query" validate:"max=2048" example:"dealType=hotel"`
}

// ApplyFiltersRequest represents a filter form submission.
// When Params is present only the listed parameters change; otherwise Query
// replaces the whole filter set.
type ApplyFiltersRequest struct {
	Query string `json:"query" validate:"max=2048" example:"destination=paris&priceRange=1000-2000"`

	// Params maps filter parameter names to values (e.g., {"sortBy": "price_desc"})
	Params map[string]string `json:"params,omitempty" validate:"omitempty,max=16,dive,keys,required,max=64,endkeys,max=64"`
}

// SetPageRequest represents a pagination control activation.
type SetPageRequest struct {
	Page int `json:"page" validate:"required,min=1" example:"2"`
}

// PopRequest carries the query of the location a history pop landed on.
type PopRequest struct {
	Query string `json:"query" validate:"max=2048" example:"destination=bali"`
}

// GetPageRequest holds the query parameters of GET /api/v1/pages/:id.
type GetPageRequest struct {
	// Wait blocks until loading regions settle (bounded by the settle timeout)
	Wait bool `query:"wait"`
}

// ListingRequest holds the reserved query parameters of GET /api/v1/listings/:kind.
// Every other query parameter is treated as a filter.
type ListingRequest struct {
	Page    int    `query:"page" validate:"omitempty,min=1" example:"1"`
	Variant string `query:"variant" validate:"omitempty,oneof=featured all top trending seasonal" example:"all"`
}

// ValidationError represents a field-level validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// Error implements the error interface.
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return "validation failed"
	}
	return v.Errors[0].Message
}

// Add adds a validation error.
func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// ToMap converts validation errors to a map for API response.
func (v *ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string, len(v.Errors))
	for _, e := range v.Errors {
		result[e.Field] = e.Message
	}
	return result
}

var (
	requestValidator     *validator.Validate
	requestValidatorOnce sync.Once
)

// getValidator returns the shared validator. Field names are reported by
// their json (or query) tag so messages match what clients send.
func getValidator() *validator.Validate {
	requestValidatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "query"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
		requestValidator = v
	})
	return requestValidator
}

// validateRequest validates a request struct and returns *ValidationErrors
// describing every failed field.
func validateRequest(req interface{}) error {
	err := getValidator().Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := &ValidationErrors{}
	for _, fe := range fieldErrs {
		field := fieldPath(fe)
		errs.Add(field, fieldMessage(field, fe))
	}
	return errs
}

// fieldPath strips the struct name from the validator namespace
// ("ApplyFiltersRequest.params[sortBy]" becomes "params[sortBy]").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
