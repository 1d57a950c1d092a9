package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// StorageError reports a failed persistence or blob I/O operation.
// It is never retried nor masked by the services.
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(err error, op string) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (err *StorageError) Error() string { return err.Op + ": " + err.Err.Error() }
func (err *StorageError) Unwrap() error { return err.Err }

func IsStorageError(err error) bool {
	var sErr *StorageError
	return errors.As(err, &sErr)
}
