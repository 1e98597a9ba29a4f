// Package hub keeps a set of clipboards in sync. It polls every clipboard
// that can change on its own and fans each change out to all the others.
package hub

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.klb.dev/clipsync/internal/clip"
)

// DefaultInterval is the poll period used when none is configured.
const DefaultInterval = 250 * time.Millisecond

// ErrUnknownDisplay is returned when no clipboard is bound to a display.
var ErrUnknownDisplay = errors.New("no clipboard for display")

// Info describes one clipboard managed by the hub.
type Info struct {
	Display string `json:"display"`
	Backend string `json:"backend"`
	Rank    uint8  `json:"rank"`
	Poll    bool   `json:"poll"`
}

// Hub routes clipboard changes between all of its clipboards.
type Hub struct {
	log *slog.Logger

	mu           sync.Mutex
	clipboards   []clip.Clipboard
	seen         []string // per clipboard: contents last read from or written to it
	latest       string
	latestSource string
}

// New returns a Hub over cbs. A nil logger means slog.Default().
func New(cbs []clip.Clipboard, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		log:        logger,
		clipboards: cbs,
		seen:       make([]string, len(cbs)),
	}
}

// Run polls until ctx is done.
func (h *Hub) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	h.log.Info("clipboard sync started", "clipboards", len(h.clipboards), "interval", interval)

	t := time.NewTicker(interval)
	defer t.Stop()
	h.Tick()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			h.Tick()
		}
	}
}

// Tick reads every pollable clipboard once. The first one, in the order the
// hub was given, whose contents changed since it was last seen is published
// to all the others.
func (h *Hub) Tick() {
	h.mu.Lock()
	defer h.mu.Unlock()

	origin := -1
	var value string
	for i, c := range h.clipboards {
		if !c.ShouldPoll() {
			continue
		}
		v, err := c.Get()
		if err != nil {
			level := slog.LevelWarn
			if clip.IsRetryable(err) {
				level = slog.LevelDebug
			}
			h.log.Log(context.Background(), level, "clipboard read failed",
				"display", c.Display(), "backend", clip.Name(c), "err", err)
			continue
		}
		if v == h.seen[i] {
			continue
		}
		h.seen[i] = v
		if origin < 0 && v != "" && v != h.latest {
			origin, value = i, v
		}
	}
	if origin >= 0 {
		h.publishLocked(value, origin, h.clipboards[origin].Display())
	}
}

// Publish writes value to every clipboard. source names the origin for logs.
func (h *Hub) Publish(value, source string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.publishLocked(value, -1, source)
}

// publishLocked writes value to every clipboard except origin (an index, or
// -1 for none). Must be called with h.mu held.
func (h *Hub) publishLocked(value string, origin int, source string) {
	h.latest = value
	h.latestSource = source
	LogText(h.log, "clipboard changed", source, value)

	for i, c := range h.clipboards {
		if i == origin {
			continue
		}
		if err := c.Set(value); err != nil {
			h.log.Warn("clipboard write failed",
				"display", c.Display(), "backend", clip.Name(c), "err", err)
			continue
		}
		h.seen[i] = value
	}
}

// Get reads the clipboard bound to display.
func (h *Hub) Get(display string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.indexLocked(display)
	if i < 0 {
		return "", ErrUnknownDisplay
	}
	return h.clipboards[i].Get()
}

// Set writes value to the clipboard bound to display only. The next Tick
// propagates it if that clipboard is polled.
func (h *Hub) Set(display, value string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	i := h.indexLocked(display)
	if i < 0 {
		return ErrUnknownDisplay
	}
	return h.clipboards[i].Set(value)
}

func (h *Hub) indexLocked(display string) int {
	for i, c := range h.clipboards {
		if c.Display() == display {
			return i
		}
	}
	return -1
}

// Latest returns the most recently synced value and where it came from.
func (h *Hub) Latest() (value, source string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest, h.latestSource
}

// Clipboards returns a snapshot of the managed clipboards.
func (h *Hub) Clipboards() []Info {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Info, len(h.clipboards))
	for i, c := range h.clipboards {
		out[i] = Info{
			Display: c.Display(),
			Backend: clip.Name(c),
			Rank:    c.Rank(),
			Poll:    c.ShouldPoll(),
		}
	}
	return out
}
