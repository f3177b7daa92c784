package datagrid

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchRequired reports an engine configured without a fetch function.
	ErrFetchRequired = errors.New("datagrid: fetch function is required")
	// ErrProjectorRequired reports an engine configured without a form projector.
	ErrProjectorRequired = errors.New("datagrid: form projector is required")
	// ErrIdentityRequired reports an engine configured without an id accessor.
	ErrIdentityRequired = errors.New("datagrid: id accessor is required")
	// ErrLoaderRequired reports a submitter built without a loader.
	ErrLoaderRequired = errors.New("datagrid: loader is required")
	// ErrDialogRequired reports a submitter built without an orchestrator.
	ErrDialogRequired = errors.New("datagrid: dialog orchestrator is required")
	// ErrUnexpectedPayload reports a collection payload that is neither an array nor a page envelope.
	ErrUnexpectedPayload = errors.New("datagrid: unexpected collection payload")
	// ErrEmptyResponse reports a transport call that returned neither an envelope nor an error.
	ErrEmptyResponse = errors.New("datagrid: empty response")
	// ErrMutationUnsupported reports a mutation the resource does not expose.
	ErrMutationUnsupported = errors.New("datagrid: mutation not supported for this resource")
	// ErrNothingSelected reports a submit or delete confirmation without a target entity.
	ErrNothingSelected = errors.New("datagrid: no entity selected")
)

// LoadError describes a failed collection load. Code is the envelope status
// code, or zero when the request never produced an envelope.
type LoadError struct {
	Code    int
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("datagrid: load rejected (%d): %s", e.Code, e.Message)
	}
	return "datagrid: load failed: " + e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
