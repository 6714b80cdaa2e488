package usecase

import (
	"errors"
	"fmt"

	"github.com/xavierca1/ligue-salesdesk/internal/entity"
)

// DomainError is a business rule rejection with a stable code for the API.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == entity.ErrNotFound
}

// ParseError reports a currency string that cannot be reduced to a decimal.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse currency %q: %s", e.Input, e.Reason)
}

// PersistenceError wraps a failed database operation. Its message is never shown to API callers.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}

// notFoundOr maps entity.ErrNotFound to a NotFoundError and anything else to a PersistenceError.
func notFoundOr(resource, id, op string, err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return persistence(op, err)
}

// DomainCode lets outer layers recognise business rejections without importing this package.
func (e *DomainError) DomainCode() string {
	return e.Code
}
