package booking

import (
	"errors"
	"fmt"

	"shinely/models"
)

// ErrorKind classifies scheduling failures for callers and the HTTP layer.
type ErrorKind string

const (
	KindInvalidInput            ErrorKind = "invalid_input"
	KindPolicyViolation         ErrorKind = "policy_violation"
	KindConflict                ErrorKind = "conflict"
	KindCollaboratorUnavailable ErrorKind = "collaborator_unavailable"
	KindNotFound                ErrorKind = "not_found"
)

// Kind sentinels. Match with errors.Is; use errors.As for the details.
var (
	ErrInvalidInput            = &SchedulingError{Kind: KindInvalidInput}
	ErrPolicyViolation         = &SchedulingError{Kind: KindPolicyViolation}
	ErrConflict                = &SchedulingError{Kind: KindConflict}
	ErrCollaboratorUnavailable = &SchedulingError{Kind: KindCollaboratorUnavailable}
	ErrNotFound                = &SchedulingError{Kind: KindNotFound}
)

// Error codes.
const (
	CodeInvalidDuration   = "invalid_duration"
	CodeInvalidDate       = "invalid_date"
	CodeInvalidTime       = "invalid_time"
	CodeInvalidLocation   = "invalid_location"
	CodeUnknownProvider   = "unknown_provider"
	CodeUnknownService    = "unknown_service"
	CodeUnknownBodyType   = "unknown_body_type"
	CodeInvalidCatalog    = "invalid_catalog"
	CodeEmptyCart         = "empty_cart"
	CodeInvalidTransition = "invalid_transition"
	CodeStartInPast       = "start_in_past"
	CodeRescheduleLimit   = "reschedule_limit"
	CodeAppointmentClosed = "appointment_closed"
	CodeSlotUnavailable   = "slot_unavailable"
	CodeStaleVersion      = "stale_version"
	CodeLockBusy          = "lock_busy"
	CodeNotFound          = "appointment_not_found"
	CodeDirections        = "directions_unavailable"
	CodeSuperseded        = "superseded"
)

// SchedulingError is the typed error returned by every engine operation.
type SchedulingError struct {
	Kind    ErrorKind
	Code    string
	Field   string
	Message string
	Limit   int               // reschedule limit, when Code is reschedule_limit
	Reason  models.SlotReason // slot reason, when Code is slot_unavailable
	Err     error
}

func (e *SchedulingError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *SchedulingError) Unwrap() error {
	return e.Err
}

// Is matches on Kind, and on Code as well when the target carries one.
func (e *SchedulingError) Is(target error) bool {
	t, ok := target.(*SchedulingError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// NewSchedulingError builds a typed error for callers outside the engine.
func NewSchedulingError(kind ErrorKind, code, field, msg string) *SchedulingError {
	return &SchedulingError{Kind: kind, Code: code, Field: field, Message: msg}
}

func invalidInput(code, field, msg string) *SchedulingError {
	return &SchedulingError{Kind: KindInvalidInput, Code: code, Field: field, Message: msg}
}

func policyViolation(code, msg string) *SchedulingError {
	return &SchedulingError{Kind: KindPolicyViolation, Code: code, Message: msg}
}

func conflict(code, msg string) *SchedulingError {
	return &SchedulingError{Kind: KindConflict, Code: code, Message: msg}
}

func notFound(msg string) *SchedulingError {
	return &SchedulingError{Kind: KindNotFound, Code: CodeNotFound, Message: msg}
}

// slotUnavailable reports a start that failed re-validation at write time.
func slotUnavailable(reason models.SlotReason) *SchedulingError {
	return &SchedulingError{
		Kind:    KindConflict,
		Code:    CodeSlotUnavailable,
		Field:   "startTime",
		Message: fmt.Sprintf("requested start is not available (%s)", reason),
		Reason:  reason,
	}
}

// KindOf returns the kind of a scheduling error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var se *SchedulingError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
