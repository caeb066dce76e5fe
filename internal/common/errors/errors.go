// Package errors provides the query pipeline's error taxonomy and its mapping
// onto BPMN errors for the job worker.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	// ErrCodeRecordUnavailable is the only code fatal to a query.
	ErrCodeRecordUnavailable ErrorCode = "RECORD_UNAVAILABLE"

	// Recovered inside the pipeline; they exist so logs and metrics can
	// name what was recovered from.
	ErrCodeClassificationAmbiguous ErrorCode = "CLASSIFICATION_AMBIGUOUS"
	ErrCodeFieldMissing            ErrorCode = "FIELD_MISSING"
	ErrCodeAggregationEmpty        ErrorCode = "AGGREGATION_EMPTY"
	ErrCodeCollaboratorFailure     ErrorCode = "COLLABORATOR_FAILURE"

	ErrCodeInvalidQueryInput ErrorCode = "INVALID_QUERY_INPUT"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StandardError carries a code alongside the underlying cause.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.cause }

func newError(code ErrorCode, msg string, cause error) *StandardError {
	e := &StandardError{
		Code:      code,
		Message:   msg,
		Retryable: GetRetryCount(code) > 0,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// NewRecordUnavailableError reports that a customer's record could not be
// loaded or was empty.
func NewRecordUnavailableError(customerID string, cause error) *StandardError {
	e := newError(ErrCodeRecordUnavailable, "customer record unavailable", cause)
	e.Metadata = map[string]interface{}{"customerId": customerID}
	return e
}

// NewCollaboratorFailureError wraps a failed best-effort call.
func NewCollaboratorFailureError(collaborator string, cause error) *StandardError {
	e := newError(ErrCodeCollaboratorFailure, collaborator+" call failed", cause)
	e.Metadata = map[string]interface{}{"collaborator": collaborator}
	return e
}

// NewInvalidQueryInputError rejects malformed job or request input.
func NewInvalidQueryInputError(details string) *StandardError {
	e := newError(ErrCodeInvalidQueryInput, "invalid query input", nil)
	e.Details = details
	return e
}

// BPMNError is an error thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns the variables set on a failed or thrown job.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// GetRetryCount returns how many times a job failing with code is retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeRecordUnavailable:
		return 3
	case ErrCodeCollaboratorFailure:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError maps a StandardError onto the BPMN error the worker
// throws or fails with.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}
	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"errorCategory":     GetErrorCategory(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// GetErrorCategory groups codes for dashboards.
func GetErrorCategory(code ErrorCode) string {
	switch {
	case code == ErrCodeRecordUnavailable:
		return "DATA"
	case code == ErrCodeCollaboratorFailure:
		return "AI"
	case code == ErrCodeClassificationAmbiguous, code == ErrCodeFieldMissing, code == ErrCodeAggregationEmpty:
		return "RECOVERED"
	case strings.Contains(string(code), "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// User-facing sentences. Raw errors never reach the end user.
const (
	MsgDataUnavailable = "I'm sorry, your account data is not available right now. Please try again in a little while."
	MsgApology         = "I'm sorry, I couldn't find an answer to that right now. Please try rephrasing your question or contact your relationship manager."
	MsgInvalidQuery    = "Please type a question about your accounts, loans, transactions or profile."
)

// UserMessage returns the fixed sentence shown for code.
func UserMessage(code ErrorCode) string {
	switch code {
	case ErrCodeRecordUnavailable:
		return MsgDataUnavailable
	case ErrCodeInvalidQueryInput:
		return MsgInvalidQuery
	default:
		return MsgApology
	}
}

// CodeOf extracts the code of the first StandardError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code, true
	}
	return "", false
}
