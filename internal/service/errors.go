package service

import "fmt"

// NotFoundError reports an entity that is absent or outside the caller's
// site scope. Never retried.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ConflictError reports a uniqueness violation or a failed precondition.
// The caller must resolve and resubmit.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// SiteContextError reports that a mandatory site scope could not be
// resolved for the request.
type SiteContextError struct {
	Reason string
}

func (e *SiteContextError) Error() string {
	return "site context: " + e.Reason
}

// StoreError wraps a failed datastore call. Not retried at this layer.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func notFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func conflict(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
