package validation

import (
	"encoding/json"
	"strings"
)

// Kind classifies a field error so callers can react without string matching.
type Kind string

const (
	FutureDate           Kind = "future_date"
	HeartRateOrder       Kind = "heart_rate_order"
	PasswordMismatch     Kind = "password_mismatch"
	DuplicateEmail       Kind = "duplicate_email"
	DuplicateUsername    Kind = "duplicate_username"
	BadCredential        Kind = "bad_credential"
	MissingRequiredField Kind = "required"
	InvalidValue         Kind = "invalid"
	WeakPassword         Kind = "weak_password"
)

type FieldError struct {
	Field   string
	Kind    Kind
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Errors is an ordered list of field errors. It serializes as
// {"field": ["message", ...]}.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Errors) Add(field string, kind Kind, message string) {
	*e = append(*e, FieldError{Field: field, Kind: kind, Message: message})
}

// Append adds fe unless it is nil.
func (e *Errors) Append(fe *FieldError) {
	if fe != nil {
		*e = append(*e, *fe)
	}
}

func (e *Errors) Merge(other Errors) {
	*e = append(*e, other...)
}

func (e Errors) Has(kind Kind) bool {
	for _, fe := range e {
		if fe.Kind == kind {
			return true
		}
	}
	return false
}

func (e Errors) HasField(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Err returns nil for an empty list so callers can write `return errs.Err()`.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) MarshalJSON() ([]byte, error) {
	out := make(map[string][]string, len(e))
	for _, fe := range e {
		out[fe.Field] = append(out[fe.Field], fe.Message)
	}
	return json.Marshal(out)
}
