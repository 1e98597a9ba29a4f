package clip

import (
	"errors"
	"fmt"
	"io"
)

// Absence conditions reported by a WaylandProtocol paste. None of them are
// failures from the caller's point of view.
var (
	ErrNoSeats        = errors.New("no seats")
	ErrClipboardEmpty = errors.New("clipboard empty")
	ErrNoMimeType     = errors.New("no matching mime type")
)

// WaylandProtocol is a client of the Wayland data-control protocol.
//
// Paste requests the plain-text contents of the regular clipboard of any
// seat on the named display and returns the receiving end of the transfer
// pipe. Copy offers data as the new plain-text selection. Implementations
// are known to abort (panic) instead of returning an error in some states.
type WaylandProtocol interface {
	Paste(display string) (io.ReadCloser, error)
	Copy(display string, data []byte) error
}

// Wlr talks to the compositor directly through a WaylandProtocol.
type Wlr struct {
	Defaults
	display string
	proto   WaylandProtocol
}

// NewWlr returns a backend bound to display using proto.
func NewWlr(display string, proto WaylandProtocol) *Wlr {
	return &Wlr{display: display, proto: proto}
}

func (w *Wlr) Name() string    { return "wlr" }
func (w *Wlr) Display() string { return w.display }
func (w *Wlr) Rank() uint8     { return RankNative }

// Get reads the selection to EOF.
func (w *Wlr) Get() (string, error) {
	pipe, err := w.proto.Paste(w.display)
	switch {
	case errors.Is(err, ErrNoSeats), errors.Is(err, ErrClipboardEmpty), errors.Is(err, ErrNoMimeType):
		return "", nil
	case err != nil:
		return "", w.fail(KindProtocol, "get", err)
	}
	defer pipe.Close()

	data, err := io.ReadAll(pipe)
	if err != nil {
		return "", w.fail(KindIO, "get", err)
	}
	return decodeLossy(data), nil
}

// Set publishes value as the selection. A panic inside the protocol client
// is returned as a KindAbort error.
func (w *Wlr) Set(value string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = w.fail(KindAbort, "set", fmt.Errorf("protocol client aborted: %v", r))
		}
	}()
	if cerr := w.proto.Copy(w.display, []byte(value)); cerr != nil {
		return w.fail(KindProtocol, "set", cerr)
	}
	return nil
}

func (w *Wlr) fail(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Backend: w.Name(), Display: w.display, Op: op, Err: err}
}
