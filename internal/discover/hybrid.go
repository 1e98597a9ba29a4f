package discover

import (
	"fmt"
	"strings"
)

// HybridSpec pairs the display whose clipboard is read with the display
// whose clipboard is written.
type HybridSpec struct {
	Getter string
	Setter string
}

func (h HybridSpec) String() string {
	return "getter=" + h.Getter + ",setter=" + h.Setter
}

// ParseHybrid parses "getter=:0,setter=wayland-0".
func ParseHybrid(s string) (HybridSpec, error) {
	var h HybridSpec
	for _, part := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return HybridSpec{}, fmt.Errorf("hybrid %q: expected key=value, got %q", s, part)
		}
		switch strings.TrimSpace(k) {
		case "getter":
			h.Getter = strings.TrimSpace(v)
		case "setter":
			h.Setter = strings.TrimSpace(v)
		default:
			return HybridSpec{}, fmt.Errorf("hybrid %q: unknown key %q", s, k)
		}
	}
	if h.Getter == "" || h.Setter == "" {
		return HybridSpec{}, fmt.Errorf("hybrid %q: both getter and setter are required", s)
	}
	if h.Getter == h.Setter {
		return HybridSpec{}, fmt.Errorf("hybrid %q: getter and setter must differ", s)
	}
	return h, nil
}

// ParseHybrids parses each entry of specs.
func ParseHybrids(specs []string) ([]HybridSpec, error) {
	out := make([]HybridSpec, 0, len(specs))
	for _, s := range specs {
		h, err := ParseHybrid(s)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}
