package shared

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so wrapped or re-created
// errors still match the package-level sentinels.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes
const (
	CodeNotFound               = "NOT_FOUND"
	CodeAlreadyExists          = "ALREADY_EXISTS"
	CodeInvalidInput           = "INVALID_INPUT"
	CodeInvalidQuantity        = "INVALID_QUANTITY"
	CodeInvalidCategory        = "INVALID_CATEGORY"
	CodeInvalidDepartment      = "INVALID_DEPARTMENT"
	CodeInvalidUnit            = "INVALID_UNIT"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeInvalidState           = "INVALID_STATE"
	CodePlanLocked             = "PLAN_LOCKED"
	CodeAlreadyResolved        = "ALREADY_RESOLVED"
	CodeNeedHasPendingRequests = "NEED_HAS_PENDING_REQUESTS"
	CodeInsufficientStock      = "INSUFFICIENT_STOCK"
	CodePersistence            = "PERSISTENCE_ERROR"
)

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists          = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput           = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidQuantity        = NewDomainError(CodeInvalidQuantity, "Quantity must be positive")
	ErrUnauthorized           = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden              = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState           = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrPlanLocked             = NewDomainError(CodePlanLocked, "Plan is locked")
	ErrAlreadyResolved        = NewDomainError(CodeAlreadyResolved, "Request has already been resolved")
	ErrNeedHasPendingRequests = NewDomainError(CodeNeedHasPendingRequests, "Need has pending overflow or store requests")
	ErrInsufficientStock      = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
)

// PersistenceError reports that a valid operation could not be durably
// recorded. It wraps the storage-level cause.
type PersistenceError struct {
	Op  string
	Err error
	// Transient marks lock contention or serialization failures that may
	// succeed when the whole write is run again
	Transient bool
}

// NewPersistenceError wraps err as a persistence failure of op.
// A nil err yields nil, and an err that already is a domain error is
// returned unchanged.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}

// NewTransientPersistenceError wraps err as a retryable persistence failure of op
func NewTransientPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err, Transient: true}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Code returns the error code used at API boundaries
func (e *PersistenceError) Code() string {
	return CodePersistence
}

// IsPersistenceError reports whether err is or wraps a PersistenceError
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// IsTransientPersistenceError reports whether err wraps a retryable persistence failure
func IsTransientPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.Transient
}
