package clip

import (
	"bytes"
	"io"
	"os"
	"testing/iotest"
)

// fakeProto is an in-memory WaylandProtocol.
type fakeProto struct {
	data      []byte
	pasteErr  error
	readErr   error
	copyErr   error
	panicWith any

	pastes      int
	copies      int
	lastDisplay string
	closed      bool
}

func (p *fakeProto) Paste(display string) (io.ReadCloser, error) {
	p.pastes++
	p.lastDisplay = display
	if p.pasteErr != nil {
		return nil, p.pasteErr
	}
	if p.readErr != nil {
		return io.NopCloser(iotest.ErrReader(p.readErr)), nil
	}
	return &pipe{Reader: bytes.NewReader(p.data), closed: &p.closed}, nil
}

func (p *fakeProto) Copy(display string, data []byte) error {
	p.copies++
	p.lastDisplay = display
	if p.panicWith != nil {
		panic(p.panicWith)
	}
	if p.copyErr != nil {
		return p.copyErr
	}
	p.data = append([]byte(nil), data...)
	return nil
}

type pipe struct {
	io.Reader
	closed *bool
}

func (p *pipe) Close() error {
	*p.closed = true
	return nil
}

// fakeX11 is an in-memory X11Conn.
type fakeX11 struct {
	data     []byte
	readErr  error
	writeErr error
	reads    int
	writes   int
}

func (x *fakeX11) ReadText() ([]byte, error) {
	x.reads++
	return x.data, x.readErr
}

func (x *fakeX11) WriteText(data []byte) error {
	x.writes++
	if x.writeErr != nil {
		return x.writeErr
	}
	x.data = append([]byte(nil), data...)
	return nil
}

// countingOpener returns an X11Opener that hands out conns[display] and
// counts initializations per display.
func countingOpener(conns map[string]*fakeX11, errs map[string]error) (X11Opener, map[string]int) {
	opened := make(map[string]int)
	return func(display string) (X11Conn, error) {
		opened[display]++
		if err := errs[display]; err != nil {
			return nil, err
		}
		c, ok := conns[display]
		if !ok {
			c = &fakeX11{}
			conns[display] = c
		}
		return c, nil
	}, opened
}

// memClipboard backs fakeStore handles.
type memClipboard struct {
	text     string
	has      bool
	writeErr error
	openErr  error

	opens    int
	closes   int
	displays []string
}

func (m *memClipboard) open() (TextStore, error) {
	m.displays = append(m.displays, os.Getenv(waylandDisplayEnv))
	if m.openErr != nil {
		return nil, m.openErr
	}
	m.opens++
	return &fakeStore{m: m}, nil
}

type fakeStore struct{ m *memClipboard }

func (s *fakeStore) ReadText() (string, error) {
	if !s.m.has {
		return "", io.EOF
	}
	return s.m.text, nil
}

func (s *fakeStore) WriteText(text string) error {
	if s.m.writeErr != nil {
		return s.m.writeErr
	}
	s.m.text, s.m.has = text, true
	return nil
}

func (s *fakeStore) Close() error {
	s.m.closes++
	return nil
}

// recorder is a Clipboard that counts calls.
type recorder struct {
	Defaults
	display string
	value   string
	getErr  error
	setErr  error
	gets    int
	sets    int
}

func (r *recorder) Display() string { return r.display }

func (r *recorder) Get() (string, error) {
	r.gets++
	return r.value, r.getErr
}

func (r *recorder) Set(value string) error {
	r.sets++
	if r.setErr != nil {
		return r.setErr
	}
	r.value = value
	return nil
}
