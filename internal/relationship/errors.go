// internal/relationship/errors.go
package relationship

import (
	"errors"
	"fmt"
)

// Kind classifies a relationship failure.
type Kind int

const (
	KindUnknown Kind = iota
	InvalidTarget
	UserNotFound
	AlreadyFriends
	DuplicateRequest
	RequestNotFound
	StoreUnavailable
	ConflictRetryExhausted
)

var kindNames = map[Kind]string{
	KindUnknown:            "Unknown",
	InvalidTarget:          "InvalidTarget",
	UserNotFound:           "UserNotFound",
	AlreadyFriends:         "AlreadyFriends",
	DuplicateRequest:       "DuplicateRequest",
	RequestNotFound:        "RequestNotFound",
	StoreUnavailable:       "StoreUnavailable",
	ConflictRetryExhausted: "ConflictRetryExhausted",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a typed relationship failure. Errors compare equal under errors.Is
// when their kinds match, so callers can test against the Err* values below.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidTarget          = &Error{Kind: InvalidTarget}
	ErrUserNotFound           = &Error{Kind: UserNotFound}
	ErrAlreadyFriends         = &Error{Kind: AlreadyFriends}
	ErrDuplicateRequest       = &Error{Kind: DuplicateRequest}
	ErrRequestNotFound        = &Error{Kind: RequestNotFound}
	ErrStoreUnavailable       = &Error{Kind: StoreUnavailable}
	ErrConflictRetryExhausted = &Error{Kind: ConflictRetryExhausted}
)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}
