package timeline

import (
	"errors"
	"fmt"
)

// Error represents a timeline operation error.
type Error struct {
	Code     string
	Message  string
	BridgeID string
	Cause    error
}

const (
	ErrCodeBridgeAtBoundary = "BRIDGE_AT_BOUNDARY"
	ErrCodeDuplicateBridge  = "DUPLICATE_BRIDGE"
	ErrCodeOutOfExtent      = "OUT_OF_EXTENT"
	ErrCodeBridgeNotFound   = "BRIDGE_NOT_FOUND"
)

func (e *Error) Error() string {
	if e.BridgeID != "" {
		return fmt.Sprintf("timeline error %s: %s (bridge: %s)", e.Code, e.Message, e.BridgeID)
	}
	return fmt.Sprintf("timeline error %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrBridgeAtBoundary is returned when a bridge's position coincides with an
// existing interval endpoint.
func ErrBridgeAtBoundary(bridgeID string) *Error {
	return &Error{Code: ErrCodeBridgeAtBoundary, Message: "bridge position coincides with an interval endpoint", BridgeID: bridgeID}
}

// ErrDuplicateBridge is returned when a bridge with the same id already exists.
func ErrDuplicateBridge(bridgeID string) *Error {
	return &Error{Code: ErrCodeDuplicateBridge, Message: "a bridge with this id already exists", BridgeID: bridgeID}
}

// ErrOutOfExtent is returned when a bridge position falls outside the
// timeline's temporal extent.
func ErrOutOfExtent(bridgeID string) *Error {
	return &Error{Code: ErrCodeOutOfExtent, Message: "bridge position is outside the timeline's temporal extent", BridgeID: bridgeID}
}

// ErrBridgeNotFound is returned when a referenced bridge id does not exist.
func ErrBridgeNotFound(bridgeID string) *Error {
	return &Error{Code: ErrCodeBridgeNotFound, Message: "no bridge with this id", BridgeID: bridgeID}
}

// IsDuplicateBridge reports whether err is a DUPLICATE_BRIDGE error.
func IsDuplicateBridge(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDuplicateBridge
}

// IsBridgeAtBoundary reports whether err is a BRIDGE_AT_BOUNDARY error.
func IsBridgeAtBoundary(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeBridgeAtBoundary
}

// IsBridgeNotFound reports whether err is a BRIDGE_NOT_FOUND error.
func IsBridgeNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeBridgeNotFound
}

// IsOutOfExtent reports whether err is an OUT_OF_EXTENT error.
func IsOutOfExtent(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeOutOfExtent
}
