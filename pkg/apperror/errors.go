// Package apperror provides a structured way to handle application errors
// with specific codes, severity levels, and additional details. It also
// includes utilities for converting to and from gRPC status errors.
package apperror

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode represents a specific application error code.
type ErrorCode string

const (
	// Topology (graph-build time)
	CodeInvalidTopology  ErrorCode = "INVALID_TOPOLOGY"
	CodeUnknownNode      ErrorCode = "UNKNOWN_NODE"
	CodeUnknownCorridor  ErrorCode = "UNKNOWN_CORRIDOR"
	CodeNegativeCapacity ErrorCode = "NEGATIVE_CAPACITY"

	// Solver
	CodeUnreachableExit      ErrorCode = "UNREACHABLE_EXIT"
	CodeInfeasibleTargetFlow ErrorCode = "INFEASIBLE_TARGET_FLOW"
	CodeSolverError          ErrorCode = "SOLVER_ERROR"

	// Flow validation
	CodeConservationViolation ErrorCode = "CONSERVATION_VIOLATION"
	CodeCapacityOverflow      ErrorCode = "CAPACITY_OVERFLOW"
	CodeNegativeFlow          ErrorCode = "NEGATIVE_FLOW"

	// General
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeUnavailable     ErrorCode = "UNAVAILABLE"
)

// Severity defines the criticality level of an error.
type Severity int

const (
	// SeverityWarning indicates a non-critical issue that can be ignored or automatically resolved.
	SeverityWarning Severity = iota
	// SeverityError indicates a standard error that requires attention.
	SeverityError
	// SeverityCritical indicates a severe error that might require immediate human intervention.
	SeverityCritical
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is a custom error type that includes an ErrorCode, message,
// an optional field, additional details, an underlying cause, and a severity level.
type Error struct {
	Code     ErrorCode      // Code is a unique identifier for the type of error.
	Message  string         // Message is a human-readable description of the error.
	Field    string         // Field indicates which input field caused the error, if applicable.
	Details  map[string]any // Details provides additional structured information about the error.
	Cause    error          // Cause is the underlying error that triggered this application error.
	Severity Severity       // Severity indicates the criticality level of the error.
}

// Error implements the error interface, returning a string representation of the error.
func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s (field: %s)", e.Code, e.Message, e.Field)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error, allowing for error chain introspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetails attaches structured details and returns the error for chaining.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithCause attaches an underlying cause and returns the error for chaining.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Severity: SeverityError,
	}
}

// NewInvalidTopology creates a graph-build validation error.
// Raised at build time only, never mid-solve.
func NewInvalidTopology(field, message string) *Error {
	return &Error{
		Code:     CodeInvalidTopology,
		Message:  message,
		Field:    field,
		Severity: SeverityError,
	}
}

// NewUnknownNode creates an error for a corridor referencing a node
// that does not exist in the graph specification.
func NewUnknownNode(corridor, node string) *Error {
	return &Error{
		Code:     CodeUnknownNode,
		Message:  fmt.Sprintf("corridor %s references unknown node %q", corridor, node),
		Field:    "corridor",
		Severity: SeverityError,
	}
}

// NewUnknownCorridor creates an error for a disruption request naming
// a corridor that does not exist.
func NewUnknownCorridor(corridor string) *Error {
	return &Error{
		Code:     CodeUnknownCorridor,
		Message:  fmt.Sprintf("corridor %s does not exist", corridor),
		Field:    "corridor",
		Severity: SeverityError,
	}
}

// NewNegativeCapacity creates an error for a corridor with negative capacity.
func NewNegativeCapacity(corridor string, capacity float64) *Error {
	return &Error{
		Code:     CodeNegativeCapacity,
		Message:  fmt.Sprintf("corridor %s has negative capacity %g", corridor, capacity),
		Field:    "corridor.capacity",
		Severity: SeverityError,
	}
}

// NewUnreachableExit signals the degenerate case where the exit is not
// reachable from the entrance. Flow value is zero and the assignment is
// all-zero; callers may treat this as a warning rather than a failure.
func NewUnreachableExit(source, sink string) *Error {
	return &Error{
		Code:     CodeUnreachableExit,
		Message:  fmt.Sprintf("exit %q is not reachable from entrance %q", sink, source),
		Severity: SeverityWarning,
	}
}

// NewInfeasibleTargetFlow signals a contract violation between the two
// solver stages: the requested flow value exceeds the true maximum.
// This indicates a caller bug and is treated as fatal.
func NewInfeasibleTargetFlow(target, achieved float64) *Error {
	return &Error{
		Code:     CodeInfeasibleTargetFlow,
		Message:  fmt.Sprintf("target flow %g is infeasible, only %g could be routed", target, achieved),
		Severity: SeverityCritical,
	}
}

// Is reports whether the target error is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var appErr *Error
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

// GetCode extracts the ErrorCode from an error chain.
// Returns CodeInternal for non-application errors.
func GetCode(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// GetSeverity extracts the Severity from an error chain.
// Returns SeverityError for non-application errors.
func GetSeverity(err error) Severity {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Severity
	}
	return SeverityError
}

// IsCode reports whether the error chain contains an *Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// grpcCodeMap maps application error codes to gRPC status codes.
var grpcCodeMap = map[ErrorCode]codes.Code{
	CodeInvalidTopology:       codes.InvalidArgument,
	CodeUnknownNode:           codes.InvalidArgument,
	CodeUnknownCorridor:       codes.NotFound,
	CodeNegativeCapacity:      codes.InvalidArgument,
	CodeUnreachableExit:       codes.FailedPrecondition,
	CodeInfeasibleTargetFlow:  codes.Internal,
	CodeSolverError:           codes.Internal,
	CodeConservationViolation: codes.Internal,
	CodeCapacityOverflow:      codes.Internal,
	CodeNegativeFlow:          codes.Internal,
	CodeInternal:              codes.Internal,
	CodeNotFound:              codes.NotFound,
	CodeInvalidArgument:       codes.InvalidArgument,
	CodeUnavailable:           codes.Unavailable,
}

// ToGRPCStatus converts an error to a gRPC status error.
// Application errors map through grpcCodeMap; unknown errors become Internal.
func ToGRPCStatus(err error) error {
	if err == nil {
		return nil
	}

	var appErr *Error
	if !errors.As(err, &appErr) {
		return status.Error(codes.Internal, err.Error())
	}

	code, ok := grpcCodeMap[appErr.Code]
	if !ok {
		code = codes.Unknown
	}
	return status.Error(code, appErr.Error())
}

// FromGRPCStatus converts a gRPC status error back to an application error.
func FromGRPCStatus(err error) *Error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return New(CodeInternal, err.Error())
	}

	var code ErrorCode
	switch st.Code() {
	case codes.InvalidArgument:
		code = CodeInvalidArgument
	case codes.NotFound:
		code = CodeNotFound
	case codes.Unavailable:
		code = CodeUnavailable
	default:
		code = CodeInternal
	}
	return New(code, st.Message())
}
