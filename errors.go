package opc

import "errors"

var (
	ErrInvalidFormat        = errors.New("opc: invalid format")
	ErrInvalidPartName      = errors.New("opc: invalid part name")
	ErrInvariantViolation   = errors.New("opc: package invariant violated")
	ErrContainerIO          = errors.New("opc: container i/o failure")
	ErrUnsupportedFormat    = errors.New("opc: unsupported container format")
	ErrUnsupportedOperation = errors.New("opc: unsupported operation")
	ErrWriterActive         = errors.New("opc: part already has an active writer")
	ErrPartExists           = errors.New("opc: part already exists")
	ErrPartNotFound         = errors.New("opc: part not found")
	ErrLimitExceeded        = errors.New("opc: limit exceeded")
	ErrInvalidPayload       = errors.New("opc: invalid payload")
)

// ErrOLE2Format and ErrRawXMLFormat both match ErrUnsupportedFormat with
// errors.Is, so callers can branch on either the family or the exact kind.
var (
	ErrOLE2Format   = &formatError{kind: "legacy OLE2 compound file, not an OPC package"}
	ErrRawXMLFormat = &formatError{kind: "raw XML file, not an OPC package"}
)

type formatError struct {
	kind string
}

func (e *formatError) Error() string { return "opc: " + e.kind }

func (e *formatError) Unwrap() error { return ErrUnsupportedFormat }
