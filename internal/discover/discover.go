// Package discover finds the Wayland and X11 displays on this host and picks
// the best usable clipboard backend for each of them.
package discover

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"

	"go.klb.dev/clipsync/internal/clip"
)

// DefaultX11SocketDir is where X servers create their listening sockets.
const DefaultX11SocketDir = "/tmp/.X11-unix"

// Options controls discovery.
type Options struct {
	// Wayland and X11 are displays to use in addition to the scanned ones.
	Wayland []string
	X11     []string

	// NoScan disables socket scanning and the WAYLAND_DISPLAY / DISPLAY
	// lookup; only the listed displays are used.
	NoScan bool

	// Generic adds the generic backend as a candidate for Wayland displays.
	Generic bool

	// GenericOpener opens the generic backend's store. Nil means
	// clip.OpenSystem.
	GenericOpener clip.Opener

	// Protocol enables the native Wayland backend. Nil leaves it out.
	Protocol clip.WaylandProtocol

	// Registry supplies X11 handles. Nil means clip.DefaultX11Registry.
	Registry *clip.X11Registry

	// PasteCmd and CopyCmd override the wl-clipboard executables.
	PasteCmd string
	CopyCmd  string

	// Hybrids pair displays into read/write composites.
	Hybrids []HybridSpec

	// RuntimeDir and X11SocketDir override the scanned directories.
	// Empty means $XDG_RUNTIME_DIR and DefaultX11SocketDir.
	RuntimeDir   string
	X11SocketDir string

	Logger *slog.Logger
}

func (o *Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// ErrNoClipboards is returned by Discover when no display had a usable backend.
var ErrNoClipboards = errors.New("no usable clipboard found")

// Discover returns one clipboard per display, ordered by rank.
func Discover(opts Options) ([]clip.Clipboard, error) {
	log := opts.logger()
	wl, x := opts.Wayland, opts.X11
	if !opts.NoScan {
		runtimeDir := opts.RuntimeDir
		if runtimeDir == "" {
			runtimeDir = os.Getenv("XDG_RUNTIME_DIR")
		}
		socketDir := opts.X11SocketDir
		if socketDir == "" {
			socketDir = DefaultX11SocketDir
		}
		wl = slices.Concat(wl, envDisplay("WAYLAND_DISPLAY"), WaylandDisplays(runtimeDir))
		x = slices.Concat(x, envDisplay("DISPLAY"), X11Displays(socketDir))
	}
	wl, x = dedupe(wl), dedupe(x)

	byDisplay := make(map[string]clip.Clipboard)
	var order []string
	for _, d := range wl {
		if c := pick(d, waylandCandidates(d, opts), log); c != nil {
			byDisplay[d] = c
			order = append(order, d)
		}
	}
	for _, d := range x {
		if c := pick(d, x11Candidates(d, opts), log); c != nil {
			byDisplay[d] = c
			order = append(order, d)
		}
	}

	for _, h := range opts.Hybrids {
		getter, ok := byDisplay[h.Getter]
		if !ok {
			return nil, fmt.Errorf("hybrid %s: no usable clipboard on getter display %s", h, h.Getter)
		}
		setter, ok := byDisplay[h.Setter]
		if !ok {
			return nil, fmt.Errorf("hybrid %s: no usable clipboard on setter display %s", h, h.Setter)
		}
		byDisplay[h.Getter] = clip.NewHybrid(getter, setter)
		delete(byDisplay, h.Setter)
		log.Info("hybrid clipboard configured", "getter", h.Getter, "setter", h.Setter)
	}

	var out []clip.Clipboard
	for _, d := range order {
		if c, ok := byDisplay[d]; ok {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoClipboards
	}
	clip.SortByRank(out)
	return out, nil
}

// candidate is a backend constructor result.
type candidate struct {
	c   clip.Clipboard
	err error
}

func waylandCandidates(display string, opts Options) []candidate {
	var out []candidate
	if opts.Protocol != nil {
		out = append(out, candidate{c: clip.NewWlr(display, opts.Protocol)})
	}
	paste, cp := opts.PasteCmd, opts.CopyCmd
	if paste == "" {
		paste = "wl-paste"
	}
	if cp == "" {
		cp = "wl-copy"
	}
	if onPath(paste) && onPath(cp) {
		out = append(out, candidate{c: clip.NewWlCommand(display, clip.WithCommands(paste, cp))})
	}
	if opts.Generic {
		open := opts.GenericOpener
		if open == nil {
			open = clip.OpenSystem
		}
		out = append(out, candidate{c: clip.NewGenericWith(display, open)})
	}
	return out
}

func x11Candidates(display string, opts Options) []candidate {
	reg := opts.Registry
	if reg == nil {
		reg = clip.DefaultX11Registry
	}
	x, err := clip.NewX11With(display, reg)
	if err != nil {
		return []candidate{{err: err}}
	}
	return []candidate{{c: x}}
}

// pick returns the lowest-ranked candidate whose probe read succeeds.
func pick(display string, cands []candidate, log *slog.Logger) clip.Clipboard {
	var usable []clip.Clipboard
	for _, cand := range cands {
		if cand.err != nil {
			log.Debug("clipboard backend unavailable", "display", display, "err", cand.err)
			continue
		}
		usable = append(usable, cand.c)
	}
	clip.SortByRank(usable)
	for _, c := range usable {
		if _, err := c.Get(); err != nil {
			log.Debug("clipboard probe failed", "display", display, "backend", clip.Name(c), "err", err)
			continue
		}
		log.Info("clipboard found", "display", display, "backend", clip.Name(c), "rank", c.Rank())
		return c
	}
	log.Warn("no usable clipboard backend", "display", display)
	return nil
}

// WaylandDisplays lists the Wayland sockets in runtimeDir.
func WaylandDisplays(runtimeDir string) []string {
	if runtimeDir == "" {
		return nil
	}
	entries, err := os.ReadDir(runtimeDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "wayland-") || strings.HasSuffix(name, ".lock") {
			continue
		}
		if e.Type()&os.ModeSocket == 0 {
			continue
		}
		out = append(out, name)
	}
	return out
}

// X11Displays lists the X11 displays with a socket in socketDir, as ":N".
func X11Displays(socketDir string) []string {
	entries, err := os.ReadDir(socketDir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		n, ok := strings.CutPrefix(e.Name(), "X")
		if !ok || n == "" || strings.Trim(n, "0123456789") != "" {
			continue
		}
		out = append(out, ":"+n)
	}
	return out
}

func envDisplay(key string) []string {
	if v := os.Getenv(key); v != "" {
		return []string{v}
	}
	return nil
}

func onPath(name string) bool {
	if filepath.IsAbs(name) {
		st, err := os.Stat(name)
		return err == nil && !st.IsDir() && st.Mode()&0o111 != 0
	}
	_, err := exec.LookPath(name)
	return err == nil
}

func dedupe(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
