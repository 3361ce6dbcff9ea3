package employee

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation     = errors.New("employee validation failed")
	ErrDuplicateEmail = errors.New("an employee with this email already exists")
)

type Issue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = fmt.Sprintf("%s %s", issue.Field, issue.Reason)
	}
	return "employee validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
