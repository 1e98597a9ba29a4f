package clip

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"golang.design/x/clipboard"
)

// X11Conn is an initialized connection to an X11 clipboard.
type X11Conn interface {
	// ReadText returns nil when the selection holds no text.
	ReadText() ([]byte, error)
	WriteText(data []byte) error
}

// X11Opener initializes an X11Conn for display.
type X11Opener func(display string) (X11Conn, error)

// X11Handle is the single initialized X11Conn for one display, shared by
// every X11 backend bound to that display. Access is checked at runtime and
// never blocks: a conflicting borrow fails with ErrBorrowConflict.
type X11Handle struct {
	display string
	mu      sync.RWMutex
	conn    X11Conn
}

// Display returns the display the handle was initialized for.
func (h *X11Handle) Display() string { return h.display }

// Borrow takes shared access. Call release when done.
func (h *X11Handle) Borrow() (conn X11Conn, release func(), err error) {
	if !h.mu.TryRLock() {
		return nil, nil, ErrBorrowConflict
	}
	return h.conn, h.mu.RUnlock, nil
}

// BorrowMut takes exclusive access. Call release when done.
func (h *X11Handle) BorrowMut() (conn X11Conn, release func(), err error) {
	if !h.mu.TryLock() {
		return nil, nil, ErrBorrowConflict
	}
	return h.conn, h.mu.Unlock, nil
}

// X11Registry initializes X11 handles at most once per display. Repeated
// initialization of the X11 mechanism starts timing out after a handful of
// attempts, so a failed initialization is remembered too and never retried.
type X11Registry struct {
	open X11Opener

	mu      sync.Mutex
	entries map[string]*x11Entry
}

type x11Entry struct {
	once   sync.Once
	handle *X11Handle
	err    error
}

// NewX11Registry returns an empty registry that initializes handles with open.
func NewX11Registry(open X11Opener) *X11Registry {
	return &X11Registry{open: open, entries: make(map[string]*x11Entry)}
}

// DefaultX11Registry is the process-wide registry used by NewX11.
var DefaultX11Registry = NewX11Registry(OpenX11)

// Handle returns the handle for display, initializing it on first use.
func (r *X11Registry) Handle(display string) (*X11Handle, error) {
	r.mu.Lock()
	e, ok := r.entries[display]
	if !ok {
		e = &x11Entry{}
		r.entries[display] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		conn, err := r.open(display)
		if err != nil {
			e.err = &Error{Kind: KindInit, Backend: "x11", Display: display, Op: "init", Err: err}
			return
		}
		e.handle = &X11Handle{display: display, conn: conn}
	})
	return e.handle, e.err
}

// Displays returns the displays the registry has attempted to initialize.
func (r *X11Registry) Displays() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for d := range r.entries {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// X11 reads and writes the X11 CLIPBOARD selection through a shared handle.
// The display is bound once, when the handle is initialized.
type X11 struct {
	Defaults
	display string
	handle  *X11Handle
}

// NewX11 returns a backend for display using DefaultX11Registry.
func NewX11(display string) (*X11, error) {
	return NewX11With(display, DefaultX11Registry)
}

// NewX11With returns a backend for display whose handle comes from reg.
func NewX11With(display string, reg *X11Registry) (*X11, error) {
	h, err := reg.Handle(display)
	if err != nil {
		return nil, err
	}
	return &X11{display: display, handle: h}, nil
}

func (x *X11) Name() string    { return "x11" }
func (x *X11) Display() string { return x.display }

// Handle returns the shared handle.
func (x *X11) Handle() *X11Handle { return x.handle }

// Get reads the selection. An absent or unreadable selection reads as "".
func (x *X11) Get() (string, error) {
	conn, release, err := x.handle.Borrow()
	if err != nil {
		return "", x.fail(KindBorrow, "get", err)
	}
	defer release()

	data, err := conn.ReadText()
	if err != nil || data == nil {
		return "", nil
	}
	return decodeLossy(data), nil
}

// Set takes ownership of the selection with value.
func (x *X11) Set(value string) error {
	conn, release, err := x.handle.BorrowMut()
	if err != nil {
		return x.fail(KindBorrow, "set", err)
	}
	defer release()

	if err := conn.WriteText([]byte(value)); err != nil {
		return x.fail(KindProtocol, "set", err)
	}
	return nil
}

func (x *X11) fail(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Backend: x.Name(), Display: x.display, Op: op, Err: err}
}

// golang.design/x/clipboard keeps one process-wide connection, so only the
// first display opened can be served.
var (
	designMu      sync.Mutex
	designDisplay string
	designReady   bool
)

// ErrWriteRejected is returned when the X server did not accept ownership of
// the selection.
var ErrWriteRejected = errors.New("selection write rejected")

// OpenX11 initializes golang.design/x/clipboard for display. The library
// opens the display named by DISPLAY on every call, so the variable is bound
// around Init and around each read and write.
func OpenX11(display string) (X11Conn, error) {
	designMu.Lock()
	defer designMu.Unlock()

	if designReady {
		if display != designDisplay {
			return nil, fmt.Errorf("x11 clipboard already bound to %s", designDisplay)
		}
		return designConn{display: display}, nil
	}

	unbind, err := bindDisplay(x11DisplayEnv, display)
	if err != nil {
		return nil, err
	}
	defer unbind()
	if err := clipboard.Init(); err != nil {
		return nil, fmt.Errorf("clipboard init: %w", err)
	}
	designDisplay, designReady = display, true
	return designConn{display: display}, nil
}

type designConn struct {
	display string
}

func (c designConn) ReadText() ([]byte, error) {
	unbind, err := bindDisplay(x11DisplayEnv, c.display)
	if err != nil {
		return nil, err
	}
	defer unbind()
	return clipboard.Read(clipboard.FmtText), nil
}

func (c designConn) WriteText(data []byte) error {
	unbind, err := bindDisplay(x11DisplayEnv, c.display)
	if err != nil {
		return err
	}
	defer unbind()
	if clipboard.Write(clipboard.FmtText, data) == nil {
		return ErrWriteRejected
	}
	return nil
}
