package hub

import (
	"context"
	"log/slog"

	"go.klb.dev/clipsync/internal/clip"
)

// LogText logs a clipboard event at INFO (source, size) and a text preview
// of up to 120 characters at DEBUG.
func LogText(log *slog.Logger, event, source, text string) {
	log.Info(event, "source", source, "bytes", len(text))

	if !log.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	log.Debug("clipboard text", "source", source, "preview", clip.Preview(text))
}
