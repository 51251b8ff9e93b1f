// Package apperr defines the error kinds every I/O boundary converts its
// failures into. Front-ends switch on Kind, never on underlying errors.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes a failure.
type Kind string

const (
	// KindGenerationFailed means the generative provider returned nothing
	// usable, failed, panicked or timed out.
	KindGenerationFailed Kind = "GENERATION_FAILED"

	// KindStoreUnprovisioned means the remote report store has not been set up.
	KindStoreUnprovisioned Kind = "DB_NOT_CREATED"

	// KindStoreUnreachable is any other remote store failure.
	KindStoreUnreachable Kind = "STORE_UNREACHABLE"

	// KindPersistCorrupt means persisted data could not be decoded.
	KindPersistCorrupt Kind = "PERSIST_CORRUPT"

	// KindStorageFailed means device-local storage could not be read or
	// written.
	KindStorageFailed Kind = "STORAGE_FAILED"

	// KindValidationFailed means required input fields were empty.
	KindValidationFailed Kind = "VALIDATION_FAILED"
)

// GenerationFailedMessage is shown whenever a procedure cannot be generated.
const GenerationFailedMessage = "Could not generate a test at this time. Please try again later."

// Error carries a Kind plus the underlying cause.
type Error struct {
	Kind    Kind
	Message string

	// Fields names the offending inputs for KindValidationFailed.
	Fields []string

	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same Kind, so errors.Is(err, apperr.New(k, ""))
// works as a kind check.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around err.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// GenerationFailed wraps a provider failure.
func GenerationFailed(err error) *Error {
	return Wrap(KindGenerationFailed, GenerationFailedMessage, err)
}

// Unprovisioned wraps a remote store that has not been created.
func Unprovisioned(err error) *Error {
	return Wrap(KindStoreUnprovisioned, "remote report store has not been created", err)
}

// Unreachable wraps a remote store connectivity failure.
func Unreachable(err error) *Error {
	return Wrap(KindStoreUnreachable, "remote report store unreachable", err)
}

// PersistCorrupt wraps a decode failure of persisted data under key.
func PersistCorrupt(key string, err error) *Error {
	return Wrap(KindPersistCorrupt, fmt.Sprintf("persisted data under %q is corrupt", key), err)
}

// Storage wraps a device-local read or write failure.
func Storage(op string, err error) *Error {
	return Wrap(KindStorageFailed, op, err)
}

// Validation reports empty required fields.
func Validation(fields ...string) *Error {
	return &Error{
		Kind:    KindValidationFailed,
		Message: "missing required fields: " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage returns the text a front-end shows for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case KindGenerationFailed:
		return GenerationFailedMessage
	case KindStoreUnprovisioned:
		return "Database Setup Required: the report database has not been created yet. " +
			"Run `purity report provision` (or create the reports table on the server) and try again."
	case KindStoreUnreachable:
		return "Unable to connect to the report database. Please try again."
	case KindValidationFailed:
		var e *Error
		errors.As(err, &e)
		return "Please fill in: " + strings.Join(e.Fields, ", ") + "."
	case KindPersistCorrupt:
		return "Saved data could not be read and was reset."
	case KindStorageFailed:
		return "Could not read or write data on this device. Please try again."
	}
	return err.Error()
}
