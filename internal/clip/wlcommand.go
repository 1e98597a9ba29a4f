package clip

import (
	"errors"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// WlCommand shells out to the wl-clipboard utilities. It has no persistent
// presence on the display, so it is written to rather than watched.
type WlCommand struct {
	display  string
	pasteCmd string
	copyCmd  string
}

// WlCommandOption configures a WlCommand.
type WlCommandOption func(*WlCommand)

// WithCommands overrides the paste and copy executables.
func WithCommands(paste, cp string) WlCommandOption {
	return func(c *WlCommand) {
		c.pasteCmd = paste
		c.copyCmd = cp
	}
}

// NewWlCommand returns a backend bound to the Wayland display.
func NewWlCommand(display string, opts ...WlCommandOption) *WlCommand {
	c := &WlCommand{display: display, pasteCmd: "wl-paste", copyCmd: "wl-copy"}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *WlCommand) Name() string     { return "wl-command" }
func (c *WlCommand) Display() string  { return c.display }
func (c *WlCommand) ShouldPoll() bool { return false }
func (c *WlCommand) Rank() uint8      { return RankCommand }

// Commands returns the paste and copy executables.
func (c *WlCommand) Commands() (paste, cp string) { return c.pasteCmd, c.copyCmd }

func (c *WlCommand) command(name string, args ...string) *exec.Cmd {
	cmd := exec.Command(name, args...)
	cmd.Env = append(os.Environ(), waylandDisplayEnv+"="+c.display)
	return cmd
}

// Get returns the paste command's stdout with surrounding whitespace trimmed.
// A non-zero exit (wl-paste exits 1 on an empty clipboard) is not an error.
func (c *WlCommand) Get() (string, error) {
	out, err := c.command(c.pasteCmd).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", c.fail("get", err)
		}
	}
	return strings.TrimSpace(decodeLossy(out)), nil
}

// Set starts the copy command and returns without waiting for it. The new
// contents may not be visible yet when Set returns.
func (c *WlCommand) Set(value string) error {
	cmd := c.command(c.copyCmd, "--", value)
	if err := cmd.Start(); err != nil {
		return c.fail("set", err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			slog.Debug("copy command failed", "cmd", c.copyCmd, "display", c.display, "err", err)
		}
	}()
	return nil
}

func (c *WlCommand) fail(op string, err error) error {
	return &Error{Kind: KindIO, Backend: c.Name(), Display: c.display, Op: op, Err: err}
}
