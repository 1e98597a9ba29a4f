package clip

import "fmt"

// Hybrid reads through one backend and writes through another, for displays
// where no single backend is reliable at both. Display and Get belong to the
// getter and Set to the setter; neither half ever stands in for the other.
type Hybrid[G, S Clipboard] struct {
	Defaults
	getter G
	setter S
}

// NewHybrid pairs getter's reads with setter's writes.
func NewHybrid[G, S Clipboard](getter G, setter S) *Hybrid[G, S] {
	return &Hybrid[G, S]{getter: getter, setter: setter}
}

func (h *Hybrid[G, S]) Name() string {
	return fmt.Sprintf("hybrid(%s>%s)", Name(h.getter), Name(h.setter))
}

func (h *Hybrid[G, S]) Display() string        { return h.getter.Display() }
func (h *Hybrid[G, S]) Get() (string, error)   { return h.getter.Get() }
func (h *Hybrid[G, S]) Set(value string) error { return h.setter.Set(value) }

func (h *Hybrid[G, S]) Getter() G { return h.getter }
func (h *Hybrid[G, S]) Setter() S { return h.setter }

// NewGnomeHybrid pairs X11 reads on :n with wl-copy writes on wayland-n, the
// combination that works under GNOME's XWayland.
func NewGnomeHybrid(n int) (*Hybrid[*X11, *WlCommand], error) {
	getter, err := NewX11(fmt.Sprintf(":%d", n))
	if err != nil {
		return nil, err
	}
	return NewHybrid(getter, NewWlCommand(fmt.Sprintf("wayland-%d", n))), nil
}
