package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shrimpsizemoose/festboard/internal/metrics"
	"github.com/shrimpsizemoose/festboard/internal/rules"
)

var (
	ErrRegistrationClosed = errors.New("registration is closed")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
)

const ruleInvalid = "invalid"

// ValidationError is a request the rules refuse. Reason is safe to show to the caller.
type ValidationError struct {
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return e.Reason
}

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func invalid(format string, args ...any) *ValidationError {
	return &ValidationError{Rule: ruleInvalid, Reason: fmt.Sprintf(format, args...)}
}

func notFound(kind, id string) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// rejected turns a refused rule decision into an error and counts it.
func rejected(d rules.Decision) *ValidationError {
	metrics.RuleRejectionsTotal.WithLabelValues(string(d.Rule)).Inc()
	return &ValidationError{Rule: string(d.Rule), Reason: d.Reason}
}

// fromValidator flattens validator field errors into one ValidationError.
func fromValidator(err error) *ValidationError {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return invalid("%v", err)
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return invalid("%s", strings.Join(parts, "; "))
}
