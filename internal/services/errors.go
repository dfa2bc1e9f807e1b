package services

import (
	"fmt"
	"sort"
	"strings"
)

// NotFoundError reports a reference to a record that does not exist
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Resource, e.ID)
}

func customerNotFound(id int64) error {
	return &NotFoundError{Resource: "Customer", ID: id}
}

// ValidationError reports invalid input, keyed by field name
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

func newValidationError(fields map[string]string) error {
	return &ValidationError{Message: "Validation failed", Fields: fields}
}
