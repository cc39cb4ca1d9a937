package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
	ErrConcurrentUpdate  = errors.New("concurrent update")
	ErrAlreadyExists     = errors.New("already exists")
	ErrInvalidState      = errors.New("invalid state")
)

// ObjectNotFoundError reports that an entity addressed by ID does not exist.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an error for a missing entity named paramName.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %v (cause: %v)", ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %v", ErrObjectNotFound, e.ParamName, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports malformed input.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates an error for a malformed value.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside of [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

// NewValueIsOutOfRangeError creates an error for a value outside [minValue, maxValue].
func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(paramName string, value, minValue, maxValue any, cause error) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %v, max value is %v",
		ErrValueIsOutOfRange, sanitize(fmt.Sprint(e.Value)), e.ParamName, e.Min, e.Max)
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %v)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing mandatory value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates an error for a missing value.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ConcurrentUpdateError reports that the caller's version token no longer
// matches the stored one.
type ConcurrentUpdateError struct {
	Entity          string
	ID              string
	ExpectedVersion string
	ActualVersion   string
}

// NewConcurrentUpdateError creates an error for a version mismatch.
func NewConcurrentUpdateError(entity, id, expected, actual string) *ConcurrentUpdateError {
	return &ConcurrentUpdateError{Entity: entity, ID: id, ExpectedVersion: expected, ActualVersion: actual}
}

func (e *ConcurrentUpdateError) Error() string {
	return fmt.Sprintf("%s: %s %s was modified, expected version %s but found %s",
		ErrConcurrentUpdate, e.Entity, e.ID, e.ExpectedVersion, e.ActualVersion)
}

func (e *ConcurrentUpdateError) Unwrap() error {
	return ErrConcurrentUpdate
}

// AlreadyExistsError reports a violated uniqueness rule.
type AlreadyExistsError struct {
	Entity string
	Reason string
	Cause  error
}

// NewAlreadyExistsError creates an error for a uniqueness violation.
func NewAlreadyExistsError(entity, reason string) *AlreadyExistsError {
	return &AlreadyExistsError{Entity: entity, Reason: reason}
}

func NewAlreadyExistsErrorWithCause(entity, reason string, cause error) *AlreadyExistsError {
	return &AlreadyExistsError{Entity: entity, Reason: reason, Cause: cause}
}

func (e *AlreadyExistsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s (cause: %v)", ErrAlreadyExists, e.Entity, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s %s", ErrAlreadyExists, e.Entity, e.Reason)
}

func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// InvalidStateError reports an operation attempted in a lifecycle state that
// does not permit it. Allowed lists the states that would have been accepted.
type InvalidStateError struct {
	Operation string
	Actual    string
	Allowed   []string
}

// NewInvalidStateError creates an error for an operation the current state forbids.
func NewInvalidStateError(operation, actual string, allowed ...string) *InvalidStateError {
	return &InvalidStateError{Operation: operation, Actual: actual, Allowed: allowed}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: cannot %s in state %s, allowed states are [%s]",
		ErrInvalidState, e.Operation, e.Actual, strings.Join(e.Allowed, ", "))
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// IsNotFound reports whether err wraps ErrObjectNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsConflict reports a version mismatch or a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConcurrentUpdate) || errors.Is(err, ErrAlreadyExists)
}

// IsInvalidState reports whether err is a forbidden state transition.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrInvalidState)
}

// IsValidation reports whether err describes malformed input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValueIsInvalid) ||
		errors.Is(err, ErrValueIsRequired) ||
		errors.Is(err, ErrValueIsOutOfRange)
}

func sanitize(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
