package clip

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func allKinds(t *testing.T) []Clipboard {
	t.Helper()
	x11, err := NewX11With(":0", NewX11Registry(func(string) (X11Conn, error) { return &fakeX11{}, nil }))
	if err != nil {
		t.Fatalf("NewX11With: %v", err)
	}
	return []Clipboard{
		NewWlCommand("wayland-1"),
		x11,
		NewGenericWith("wayland-1", (&memClipboard{}).open),
		NewWlr("wayland-1", &fakeProto{}),
	}
}

func TestSortByRank(t *testing.T) {
	cbs := allKinds(t)
	SortByRank(cbs)

	want := []string{"wlr", "x11", "generic", "wl-command"}
	for i, c := range cbs {
		if got := Name(c); got != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got, want[i])
		}
	}
	if cbs[0].Rank() != RankNative || cbs[1].Rank() != DefaultRank ||
		cbs[2].Rank() != DefaultRank || cbs[3].Rank() != RankCommand {
		t.Errorf("unexpected ranks: %d %d %d %d", cbs[0].Rank(), cbs[1].Rank(), cbs[2].Rank(), cbs[3].Rank())
	}
}

func TestBest(t *testing.T) {
	if Best(nil) != nil {
		t.Fatal("Best(nil) should be nil")
	}
	if got := Name(Best(allKinds(t))); got != "wlr" {
		t.Fatalf("Best = %s, want wlr", got)
	}
}

func TestShouldPoll(t *testing.T) {
	for _, c := range allKinds(t) {
		want := Name(c) != "wl-command"
		if got := c.ShouldPoll(); got != want {
			t.Errorf("%s: ShouldPoll = %v, want %v", Name(c), got, want)
		}
	}
}

func TestPointerAndInterfaceIndirection(t *testing.T) {
	r := &recorder{display: "wayland-9", value: "v"}
	var direct Clipboard = r
	boxed := []Clipboard{direct, Traced(direct, nil)}

	for _, c := range boxed {
		if c.Display() != "wayland-9" {
			t.Errorf("Display = %q", c.Display())
		}
		if c.Rank() != DefaultRank || !c.ShouldPoll() {
			t.Errorf("defaults not forwarded: rank=%d poll=%v", c.Rank(), c.ShouldPoll())
		}
	}
}

func TestTracedForwardsEverything(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	inner := NewWlCommand("wayland-3")
	c := Traced(inner, logger)

	if c.Display() != "wayland-3" || c.Rank() != RankCommand || c.ShouldPoll() {
		t.Fatalf("forwarding broken: display=%q rank=%d poll=%v", c.Display(), c.Rank(), c.ShouldPoll())
	}
	if Name(c) != "wl-command" {
		t.Errorf("Name = %q", Name(c))
	}
	if Unwrap(c) != Clipboard(inner) {
		t.Error("Unwrap did not return the wrapped clipboard")
	}
	if Unwrap(inner) != Clipboard(inner) {
		t.Error("Unwrap of an unwrapped clipboard should be the identity")
	}

	r := &recorder{display: "d", getErr: errors.New("boom")}
	tr := Traced(r, logger)
	if _, err := tr.Get(); err == nil || err.Error() != "boom" {
		t.Fatalf("Get error not passed through: %v", err)
	}
	if err := tr.Set("hello"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if r.value != "hello" || r.gets != 1 || r.sets != 1 {
		t.Fatalf("calls not forwarded: %+v", r)
	}
	if !strings.Contains(buf.String(), "clipboard read failed") || !strings.Contains(buf.String(), "clipboard written") {
		t.Errorf("missing log lines:\n%s", buf.String())
	}
}

func TestDecodeLossy(t *testing.T) {
	got := decodeLossy([]byte("ok\xffdone"))
	if got != "ok�done" {
		t.Fatalf("decodeLossy = %q", got)
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("é", 200)
	if got := []rune(Preview(long)); len(got) != 121 {
		t.Fatalf("Preview length = %d runes", len(got))
	}
	if Preview("short") != "short" {
		t.Fatal("short strings should be unchanged")
	}
}

func TestErrorKinds(t *testing.T) {
	base := errors.New("cause")
	err := error(&Error{Kind: KindBorrow, Backend: "x11", Display: ":0", Op: "get", Err: base})

	if !errors.Is(err, base) {
		t.Error("Error should unwrap to its cause")
	}
	if !IsRetryable(err) {
		t.Error("borrow errors are retryable")
	}
	if IsRetryable(&Error{Kind: KindProtocol, Err: base}) || IsRetryable(base) {
		t.Error("only borrow errors are retryable")
	}
	if KindOf(base) != 0 {
		t.Error("KindOf a foreign error should be 0")
	}
	if got := err.Error(); got != "x11 get (:0): borrow: cause" {
		t.Errorf("Error() = %q", got)
	}
}
