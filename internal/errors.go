package internal

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches exactly one of
// these through errors.Is.
var (
	ErrIoFailure            = errors.New("io failure")
	ErrStoreAlreadyExists   = errors.New("store already exists")
	ErrSettingNotFound      = errors.New("setting not found")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrMalformedRecord      = errors.New("malformed record")
	ErrMissingField         = errors.New("missing field")
	ErrIntegrityCheckFailed = errors.New("integrity check failed")
	ErrUnsupportedPlatform  = errors.New("unsupported platform")
	ErrUnknownSessionType   = errors.New("unknown session type")
)

var kinds = []error{
	ErrStoreAlreadyExists,
	ErrSettingNotFound,
	ErrTypeMismatch,
	ErrMalformedRecord,
	ErrMissingField,
	ErrIntegrityCheckFailed,
	ErrUnsupportedPlatform,
	ErrUnknownSessionType,
	ErrIoFailure,
}

// KindOf returns the kind sentinel matched by err, or nil if err carries
// none of them.
func KindOf(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// StorageError represents errors accessing the store file or the filesystem
type StorageError struct {
	Path string
	Op   string // "open", "read", "write", "query", "insert"
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrIoFailure
}

// ParseError represents interchange JSON that does not have the expected shape
type ParseError struct {
	Source string // "backup", "windows", "session", file path
	Key    string // offending key path, e.g. "windows.tabs.index"
	Err    error
}

func (e *ParseError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("parse error [%s]: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("parse error [%s] %s: %v", e.Source, e.Key, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// SettingError represents a failed settings lookup. Err is ErrSettingNotFound,
// ErrTypeMismatch or an engine error.
type SettingError struct {
	Table string
	Key   string
	Err   error
}

func (e *SettingError) Error() string {
	return fmt.Sprintf("setting %s.%s: %v", e.Table, e.Key, e.Err)
}

func (e *SettingError) Unwrap() error {
	return e.Err
}

// MissingFieldError reports a field required for storage conversion
type MissingFieldError struct {
	Record string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing field %q", e.Record, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// IntegrityError represents a store that failed structural validation
type IntegrityError struct {
	Path   string
	Detail string
	Err    error
}

func (e *IntegrityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("integrity check failed for %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("integrity check failed for %s: %s", e.Path, e.Detail)
}

func (e *IntegrityError) Unwrap() error {
	return e.Err
}

func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrityCheckFailed
}
