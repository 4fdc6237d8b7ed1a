package audit

import "errors"

var (
	// ErrEventValidation is returned when an event misses required fields.
	ErrEventValidation = errors.New("audit.event_validation")

	// ErrStorageFailure is returned when the underlying storage rejects an event.
	ErrStorageFailure = errors.New("audit.storage_failure")
)
