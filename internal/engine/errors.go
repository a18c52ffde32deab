package engine

import "net/http"

// Kind classifies an engine-level failure so the HTTP wrapper can map it to
// a status code without inspecting message text.
type Kind string

const (
	InvalidRange      Kind = "invalid_range"
	InvalidEquipment  Kind = "invalid_equipment"
	InvalidScope      Kind = "invalid_scope"
	ServiceNotFound   Kind = "service_not_found"
	InvalidSlotLength Kind = "invalid_slot_length"
	SlotUnavailable   Kind = "slot_unavailable"
	Conflict          Kind = "conflict"
	UnknownField      Kind = "unknown_field"
)

// Error is the typed error surfaced across every engine entry point.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// NewUnknownFieldError builds the error strict request decoding returns when
// a request body contains a field not present in the target struct.
func NewUnknownFieldError(msg string) *Error {
	return newError(UnknownField, msg)
}

// NewInvalidScopeError builds the error a blocking request with an
// unrecognized scope value returns.
func NewInvalidScopeError(msg string) *Error {
	return newError(InvalidScope, msg)
}

// NewInvalidRangeError builds the error the HTTP boundary returns for a
// malformed time range, such as instants carrying a non-UTC zone.
func NewInvalidRangeError(msg string) *Error {
	return newError(InvalidRange, msg)
}

// HTTPStatus maps an engine Kind to its HTTP status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case InvalidRange, InvalidEquipment, InvalidScope, ServiceNotFound, InvalidSlotLength, SlotUnavailable:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case UnknownField:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
