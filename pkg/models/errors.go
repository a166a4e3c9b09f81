package models

import "fmt"

// DataInsufficiencyError marks a required field that is missing, zero or
// negative where a strictly positive value is required. It is fatal for the
// artifact it describes and is never defaulted to zero or a placeholder.
type DataInsufficiencyError struct {
	Company string
	Field   string
	Reason  string
}

func (e *DataInsufficiencyError) Error() string {
	if e.Company != "" {
		return fmt.Sprintf("insufficient data for %s: %s %s", e.Company, e.Field, e.Reason)
	}
	return fmt.Sprintf("insufficient data: %s %s", e.Field, e.Reason)
}

// CalculationError marks an algebraic edge case with no defined result, such
// as terminal growth at or above WACC or leverage weights not summing to one.
type CalculationError struct {
	Op     string
	Reason string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// ExternalServiceError wraps a timeout or non-success response from an
// ingestion, classification or peer-resolution collaborator.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service %s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
