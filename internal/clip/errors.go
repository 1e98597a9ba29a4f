package clip

import (
	"errors"
	"fmt"
)

// Kind classifies a backend failure.
type Kind int

const (
	KindIO       Kind = iota + 1 // pipe reads, subprocess spawn or capture
	KindInit                     // constructing a handle to the mechanism
	KindProtocol                 // the mechanism rejected a read or write
	KindBorrow                   // shared handle already in use; retryable
	KindAbort                    // the mechanism panicked and was contained
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindInit:
		return "init"
	case KindProtocol:
		return "protocol"
	case KindBorrow:
		return "borrow"
	case KindAbort:
		return "abort"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrBorrowConflict is returned when the shared X11 handle is already
// borrowed in a conflicting mode.
var ErrBorrowConflict = errors.New("clipboard handle already borrowed")

// Error is the error type returned by every backend in this package.
type Error struct {
	Kind    Kind
	Backend string
	Display string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s (%s): %s: %v", e.Backend, e.Op, e.Display, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsRetryable reports whether err is a transient contention failure that may
// succeed if the operation is repeated.
func IsRetryable(err error) bool {
	return KindOf(err) == KindBorrow
}
