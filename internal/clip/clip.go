// Package clip provides one text clipboard capability over the different
// display-server mechanisms found on a Linux desktop. Each backend binds a
// single display at construction time:
//
//	wlr.go        Wayland data-control protocol client (rank 10)
//	wlcommand.go  wl-paste / wl-copy subprocesses (rank 200, never polled)
//	generic.go    github.com/atotto/clipboard, fresh handle per call
//	x11.go        golang.design/x/clipboard behind a shared, borrow-checked handle
//	hybrid.go     reads from one backend, writes through another
package clip

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Rank values used by the built-in backends. Lower is preferred.
const (
	RankNative  uint8 = 10
	DefaultRank uint8 = 100
	RankCommand uint8 = 200
)

// Environment variables that select a display-server target.
const (
	waylandDisplayEnv = "WAYLAND_DISPLAY"
	x11DisplayEnv     = "DISPLAY"
)

// Clipboard is the capability every backend implements.
type Clipboard interface {
	// Display returns the display-server target this instance talks to,
	// e.g. "wayland-1" or ":0".
	Display() string

	// Get returns the current text contents. An empty clipboard and one
	// holding no text both read as "".
	Get() (string, error)

	// Set replaces the clipboard text. Some backends return before the new
	// contents are visible to other applications.
	Set(value string) error

	// ShouldPoll reports whether the contents can change without this
	// process's involvement, so a poller has to re-read them.
	ShouldPoll() bool

	// Rank orders usable backends for the same display; lower wins.
	Rank() uint8
}

// Defaults supplies the default ShouldPoll (true) and Rank (DefaultRank).
// Backends embed it and override what differs.
type Defaults struct{}

func (Defaults) ShouldPoll() bool { return true }
func (Defaults) Rank() uint8      { return DefaultRank }

// Name returns a short human-readable name for c's backend kind.
func Name(c Clipboard) string {
	if n, ok := c.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", c)
}

// SortByRank orders cbs by ascending rank. Equal ranks keep their order.
func SortByRank(cbs []Clipboard) {
	slices.SortStableFunc(cbs, func(a, b Clipboard) int {
		return cmp.Compare(a.Rank(), b.Rank())
	})
}

// Best returns the lowest-ranked clipboard in cbs, or nil if cbs is empty.
func Best(cbs []Clipboard) Clipboard {
	var best Clipboard
	for _, c := range cbs {
		if best == nil || c.Rank() < best.Rank() {
			best = c
		}
	}
	return best
}

// decodeLossy converts b to a string, replacing invalid UTF-8 with U+FFFD.
func decodeLossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}
