// Package ipc locates the Unix socket a running "clipsync sync" daemon
// listens on, so the get/set/status sub-commands can reuse the daemon's
// clipboards instead of discovering and initializing their own.
package ipc

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"time"
)

const socketName = "clipsync.sock"

// SocketPath returns the IPC socket path:
//
//   - $CLIPSYNC_SOCKET if set
//   - $XDG_RUNTIME_DIR/clipsync.sock
//   - $TMPDIR/clipsync.sock
func SocketPath() string {
	if s := os.Getenv("CLIPSYNC_SOCKET"); s != "" {
		return s
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, socketName)
	}
	return filepath.Join(os.TempDir(), socketName)
}

// IsRunning reports whether something is accepting connections on the IPC
// socket. It dials and closes; no data is exchanged.
func IsRunning() bool {
	c, err := net.DialTimeout("unix", SocketPath(), time.Second)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// ErrInUse is returned by Listen when another daemon owns the socket.
var ErrInUse = errors.New("ipc socket in use")

// Listen listens on the IPC socket. A stale socket left by a crashed daemon
// is removed first; a live one is left alone and ErrInUse is returned.
func Listen() (net.Listener, error) {
	path := SocketPath()
	if IsRunning() {
		return nil, fmt.Errorf("%s: %w", path, ErrInUse)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, err
	}
	if err := os.Chmod(path, 0o600); err != nil {
		_ = ln.Close()
		return nil, err
	}
	return ln, nil
}

// Target returns the gRPC dial target for the IPC socket.
func Target() string { return "unix://" + SocketPath() }
