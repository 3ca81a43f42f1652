package tools

import "fmt"

// ErrorKind classifies a failed tool call for the result envelope.
type ErrorKind string

const (
	ErrKindUnknownTool      ErrorKind = "UnknownToolError"
	ErrKindMissingParameter ErrorKind = "MissingParameterError"
	ErrKindInvalidParameter ErrorKind = "InvalidParameterError"
	ErrKindUpstream         ErrorKind = "UpstreamError"
	ErrKindInternal         ErrorKind = "InternalError"
)

// DispatchError is a structured tool-call failure. Every error path through
// the dispatcher produces one of these so the transport always receives a
// well-formed envelope.
type DispatchError struct {
	Kind    ErrorKind
	Message string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func unknownToolError(name string) *DispatchError {
	return &DispatchError{
		Kind:    ErrKindUnknownTool,
		Message: fmt.Sprintf("unknown tool: %s", name),
	}
}

func missingParameterError(param string) *DispatchError {
	return &DispatchError{
		Kind:    ErrKindMissingParameter,
		Message: fmt.Sprintf("parameter %q is required", param),
	}
}

func invalidParameterError(param, constraint string) *DispatchError {
	return &DispatchError{
		Kind:    ErrKindInvalidParameter,
		Message: fmt.Sprintf("parameter %q: %s", param, constraint),
	}
}

// ErrorDetail is the error half of the result envelope.
type ErrorDetail struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Envelope is the uniform tool-call result: either data or a structured
// error, never a raw fault.
type Envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

func successEnvelope(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

func errorEnvelope(err *DispatchError) Envelope {
	return Envelope{Success: false, Error: &ErrorDetail{Kind: err.Kind, Message: err.Message}}
}
