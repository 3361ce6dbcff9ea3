package payroll

import (
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrMissingPayRate    = errors.New("pay rate is not configured for the employee's pay type")
	ErrNegativeInput     = errors.New("hours, rates and percentages must not be negative")
	ErrUnknownPayType    = errors.New("unknown pay type")
	ErrUnknownPayGroup   = errors.New("unknown pay group")
	ErrUnknownEmployee   = errors.New("unknown employee")
	ErrInvalidStatus     = errors.New("invalid pay history status")
	ErrRecordNotFound    = errors.New("pay history record not found")
	ErrEmptyRun          = errors.New("pay run has no line items")
	ErrDuplicateEmployee = errors.New("employee appears more than once in the pay run")
	ErrInvalidPeriod     = errors.New("period start must not be after period end")
	ErrNothingIncluded   = errors.New("pay run has no included line items")
)

// UnknownEmployeeError names the first id that failed to resolve.
type UnknownEmployeeError struct {
	ID snowflake.ID
}

func (e *UnknownEmployeeError) Error() string {
	return fmt.Sprintf("unknown employee %s", e.ID.String())
}

func (e *UnknownEmployeeError) Is(target error) bool {
	return target == ErrUnknownEmployee
}

// RowError ties a computation failure to the employee whose row caused it.
type RowError struct {
	EmployeeID snowflake.ID
	Err        error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("employee %s: %v", e.EmployeeID.String(), e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
