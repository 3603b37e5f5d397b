package session

import "fmt"

// PreconditionError reports a start attempt whose precondition failed,
// such as no book being loaded. The session never starts.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s", e.Reason)
}

// DeviceAccessError reports that the capture device could not be
// acquired or stopped cleanly.
type DeviceAccessError struct {
	Err error
}

func (e *DeviceAccessError) Error() string {
	return fmt.Sprintf("capture device error: %v", e.Err)
}

func (e *DeviceAccessError) Unwrap() error {
	return e.Err
}

// UploadError reports a failed question upload. Message is the
// server-provided error when one could be parsed, otherwise a generic
// fallback.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed: %s", e.Message)
}

// FormValidationError reports a book upload submitted without a file.
type FormValidationError struct {
	Field string
}

func (e *FormValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}
