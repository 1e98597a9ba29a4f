package clip

import (
	"errors"
	"testing"
)

func TestX11RoundTrip(t *testing.T) {
	conns := map[string]*fakeX11{}
	open, _ := countingOpener(conns, nil)
	x, err := NewX11With(":1", NewX11Registry(open))
	if err != nil {
		t.Fatalf("NewX11With: %v", err)
	}

	if err := x.Set("x11 text"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := x.Get()
	if err != nil || got != "x11 text" {
		t.Fatalf("Get = %q, %v", got, err)
	}
}

func TestX11AbsentIsEmpty(t *testing.T) {
	cases := map[string]*fakeX11{
		"no selection": {},
		"read error":   {readErr: errors.New("selection owner vanished")},
	}
	for name, conn := range cases {
		t.Run(name, func(t *testing.T) {
			reg := NewX11Registry(func(string) (X11Conn, error) { return conn, nil })
			x, err := NewX11With(":0", reg)
			if err != nil {
				t.Fatal(err)
			}
			got, err := x.Get()
			if err != nil || got != "" {
				t.Fatalf("Get = %q, %v; want empty, nil", got, err)
			}
		})
	}
}

func TestX11WriteFailure(t *testing.T) {
	conn := &fakeX11{writeErr: ErrWriteRejected}
	x, err := NewX11With(":0", NewX11Registry(func(string) (X11Conn, error) { return conn, nil }))
	if err != nil {
		t.Fatal(err)
	}
	err = x.Set("x")
	if !errors.Is(err, ErrWriteRejected) || KindOf(err) != KindProtocol {
		t.Fatalf("Set error = %v", err)
	}
}

func TestX11RegistryInitializesOncePerDisplay(t *testing.T) {
	conns := map[string]*fakeX11{}
	open, opened := countingOpener(conns, nil)
	reg := NewX11Registry(open)

	a, err := NewX11With(":0", reg)
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		if _, err := NewX11With(":0", reg); err != nil {
			t.Fatal(err)
		}
	}
	b, err := NewX11With(":0", reg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewX11With(":1", reg); err != nil {
		t.Fatal(err)
	}

	if opened[":0"] != 1 || opened[":1"] != 1 {
		t.Fatalf("initializations = %v, want one per display", opened)
	}
	if a.Handle() != b.Handle() {
		t.Fatal("backends for the same display must share a handle")
	}
	if err := a.Set("shared"); err != nil {
		t.Fatal(err)
	}
	if got, _ := b.Get(); got != "shared" {
		t.Fatalf("second backend read %q", got)
	}
	if got := reg.Displays(); len(got) != 2 || got[0] != ":0" || got[1] != ":1" {
		t.Errorf("Displays = %v", got)
	}
}

func TestX11RegistryCachesFailedInit(t *testing.T) {
	cause := errors.New("cannot open display")
	open, opened := countingOpener(map[string]*fakeX11{}, map[string]error{":5": cause})
	reg := NewX11Registry(open)

	for range 3 {
		_, err := NewX11With(":5", reg)
		if !errors.Is(err, cause) || KindOf(err) != KindInit {
			t.Fatalf("NewX11With error = %v", err)
		}
	}
	if opened[":5"] != 1 {
		t.Fatalf("failed display initialized %d times, want 1", opened[":5"])
	}
}

func TestX11BorrowConflict(t *testing.T) {
	conn := &fakeX11{data: []byte("before")}
	x, err := NewX11With(":0", NewX11Registry(func(string) (X11Conn, error) { return conn, nil }))
	if err != nil {
		t.Fatal(err)
	}

	_, release, err := x.Handle().BorrowMut()
	if err != nil {
		t.Fatalf("BorrowMut: %v", err)
	}

	_, err = x.Get()
	if !errors.Is(err, ErrBorrowConflict) || !IsRetryable(err) {
		t.Fatalf("Get during exclusive borrow = %v, want borrow conflict", err)
	}
	if err := x.Set("during"); !errors.Is(err, ErrBorrowConflict) {
		t.Fatalf("Set during exclusive borrow = %v, want borrow conflict", err)
	}
	if conn.reads != 0 || conn.writes != 0 {
		t.Fatalf("conn touched while borrowed: reads=%d writes=%d", conn.reads, conn.writes)
	}

	release()

	got, err := x.Get()
	if err != nil || got != "before" {
		t.Fatalf("Get after release = %q, %v", got, err)
	}
}

func TestX11SharedBorrowsCoexist(t *testing.T) {
	x, err := NewX11With(":0", NewX11Registry(func(string) (X11Conn, error) {
		return &fakeX11{data: []byte("v")}, nil
	}))
	if err != nil {
		t.Fatal(err)
	}

	_, release, err := x.Handle().Borrow()
	if err != nil {
		t.Fatal(err)
	}
	defer release()

	if got, err := x.Get(); err != nil || got != "v" {
		t.Fatalf("Get alongside a shared borrow = %q, %v", got, err)
	}
	if err := x.Set("w"); !errors.Is(err, ErrBorrowConflict) {
		t.Fatalf("Set alongside a shared borrow = %v, want borrow conflict", err)
	}
}
