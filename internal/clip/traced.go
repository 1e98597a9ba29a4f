package clip

import (
	"context"
	"log/slog"
)

// traced forwards every Clipboard method to the wrapped value and logs
// reads and writes at debug level.
type traced struct {
	Clipboard
	log *slog.Logger
}

// Traced wraps c so that Get and Set are logged. Display, ShouldPoll and
// Rank are forwarded unchanged. A nil logger means slog.Default().
func Traced(c Clipboard, logger *slog.Logger) Clipboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &traced{
		Clipboard: c,
		log:       logger.With("backend", Name(c), "display", c.Display()),
	}
}

// Unwrap returns the Clipboard wrapped by Traced, or c itself.
func Unwrap(c Clipboard) Clipboard {
	if t, ok := c.(*traced); ok {
		return t.Clipboard
	}
	return c
}

func (t *traced) Name() string { return Name(t.Clipboard) }

func (t *traced) Get() (string, error) {
	v, err := t.Clipboard.Get()
	if err != nil {
		t.log.Debug("clipboard read failed", "err", err, "retryable", IsRetryable(err))
		return v, err
	}
	if t.log.Enabled(context.Background(), slog.LevelDebug) {
		t.log.Debug("clipboard read", "preview", Preview(v))
	}
	return v, nil
}

func (t *traced) Set(value string) error {
	if err := t.Clipboard.Set(value); err != nil {
		t.log.Debug("clipboard write failed", "err", err, "retryable", IsRetryable(err))
		return err
	}
	t.log.Debug("clipboard written", "bytes", len(value))
	return nil
}

// Preview truncates s to 120 runes for log output.
func Preview(s string) string {
	const limit = 120
	r := []rune(s)
	if len(r) > limit {
		return string(r[:limit]) + "…"
	}
	return s
}
