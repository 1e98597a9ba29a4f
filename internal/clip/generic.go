package clip

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/atotto/clipboard"
)

// TextStore is an open handle to a platform clipboard.
type TextStore interface {
	ReadText() (string, error)
	WriteText(text string) error
	Close() error
}

// Opener opens a fresh TextStore.
type Opener func() (TextStore, error)

// envMu serializes the process-wide display binding done by backends whose
// mechanism reads the display from the environment.
var envMu sync.Mutex

// bindDisplay sets key=value in the process environment and holds envMu
// until the returned func is called, which restores the previous value.
func bindDisplay(key, value string) (func(), error) {
	envMu.Lock()
	prev, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		envMu.Unlock()
		return nil, err
	}
	return func() {
		if had {
			_ = os.Setenv(key, prev)
		} else {
			_ = os.Unsetenv(key)
		}
		envMu.Unlock()
	}, nil
}

// Generic wraps a platform-abstracting clipboard library. Every call opens
// and releases its own handle.
type Generic struct {
	Defaults
	display string
	open    Opener
}

// NewGeneric returns a backend bound to display that uses the system
// clipboard through github.com/atotto/clipboard.
func NewGeneric(display string) *Generic {
	return NewGenericWith(display, OpenSystem)
}

// NewGenericWith is NewGeneric with a custom opener.
func NewGenericWith(display string, open Opener) *Generic {
	return &Generic{display: display, open: open}
}

func (g *Generic) Name() string    { return "generic" }
func (g *Generic) Display() string { return g.display }

// Get returns the clipboard text, or "" if no text is available.
func (g *Generic) Get() (string, error) {
	store, release, err := g.acquire("get")
	if err != nil {
		return "", err
	}
	defer release()

	text, err := store.ReadText()
	if err != nil {
		return "", nil
	}
	return text, nil
}

// Set writes value to the clipboard.
func (g *Generic) Set(value string) error {
	store, release, err := g.acquire("set")
	if err != nil {
		return err
	}
	defer release()

	if err := store.WriteText(value); err != nil {
		return g.fail(KindProtocol, "set", err)
	}
	return nil
}

// acquire binds the display and opens a store. The returned func closes the
// store and releases the binding.
func (g *Generic) acquire(op string) (TextStore, func(), error) {
	unbind, err := bindDisplay(waylandDisplayEnv, g.display)
	if err != nil {
		return nil, nil, g.fail(KindInit, op, err)
	}
	store, err := g.open()
	if err != nil {
		unbind()
		return nil, nil, g.fail(KindInit, op, err)
	}
	return store, func() {
		_ = store.Close()
		unbind()
	}, nil
}

func (g *Generic) fail(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Backend: g.Name(), Display: g.display, Op: op, Err: err}
}

// ErrUnsupported is returned by OpenSystem when no clipboard utility that
// can reach a Wayland display is available.
var ErrUnsupported = errors.New("no clipboard utility available")

// startupWayland records whether WAYLAND_DISPLAY was set when the process
// started. github.com/atotto/clipboard picks wl-paste/wl-copy or an X11 tool
// once, from that same value, and never reconsiders.
var startupWayland = os.Getenv(waylandDisplayEnv) != ""

// OpenSystem opens the system clipboard. It fails unless the library chose
// the wl-clipboard utilities at startup, since only those honor the display
// bound per call.
func OpenSystem() (TextStore, error) {
	if clipboard.Unsupported {
		return nil, ErrUnsupported
	}
	if !startupWayland {
		return nil, fmt.Errorf("%w: started without %s, X11 tool selected", ErrUnsupported, waylandDisplayEnv)
	}
	return systemStore{}, nil
}

type systemStore struct{}

func (systemStore) ReadText() (string, error)   { return clipboard.ReadAll() }
func (systemStore) WriteText(text string) error { return clipboard.WriteAll(text) }
func (systemStore) Close() error                { return nil }
