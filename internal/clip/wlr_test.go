package clip

import (
	"errors"
	"fmt"
	"testing"
)

func TestWlrRoundTrip(t *testing.T) {
	p := &fakeProto{}
	w := NewWlr("wayland-2", p)

	if err := w.Set("héllo"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := w.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "héllo" {
		t.Fatalf("Get = %q, want %q", got, "héllo")
	}
	if p.lastDisplay != "wayland-2" {
		t.Errorf("display passed to protocol = %q", p.lastDisplay)
	}
	if !p.closed {
		t.Error("paste pipe was not closed")
	}
}

func TestWlrAbsenceIsEmpty(t *testing.T) {
	for _, absent := range []error{ErrNoSeats, ErrClipboardEmpty, ErrNoMimeType, fmt.Errorf("paste: %w", ErrClipboardEmpty)} {
		w := NewWlr("wayland-0", &fakeProto{pasteErr: absent})
		got, err := w.Get()
		if err != nil || got != "" {
			t.Errorf("%v: Get = %q, %v; want empty, nil", absent, got, err)
		}
	}
}

func TestWlrGetErrors(t *testing.T) {
	cases := []struct {
		name  string
		proto *fakeProto
		kind  Kind
	}{
		{"paste fails", &fakeProto{pasteErr: errors.New("compositor gone")}, KindProtocol},
		{"pipe read fails", &fakeProto{readErr: errors.New("broken pipe")}, KindIO},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWlr("wayland-0", tc.proto).Get()
			if KindOf(err) != tc.kind {
				t.Fatalf("got %v (kind %s), want kind %s", err, KindOf(err), tc.kind)
			}
		})
	}
}

func TestWlrInvalidUTF8IsReplaced(t *testing.T) {
	w := NewWlr("wayland-0", &fakeProto{data: []byte{'a', 0xc3, 'b'}})
	got, err := w.Get()
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "a�b" {
		t.Fatalf("Get = %q", got)
	}
}

func TestWlrSetContainsPanic(t *testing.T) {
	p := &fakeProto{panicWith: "wl_display@1: error 1: invalid object"}
	w := NewWlr("wayland-0", p)

	err := w.Set("x")
	if err == nil {
		t.Fatal("expected an error from an aborting protocol client")
	}
	if KindOf(err) != KindAbort {
		t.Fatalf("kind = %s, want abort", KindOf(err))
	}
	if p.copies != 1 {
		t.Errorf("copies = %d", p.copies)
	}
}

func TestWlrSetError(t *testing.T) {
	cause := errors.New("no data-control manager")
	err := NewWlr("wayland-0", &fakeProto{copyErr: cause}).Set("x")
	if !errors.Is(err, cause) || KindOf(err) != KindProtocol {
		t.Fatalf("Set error = %v", err)
	}
}
