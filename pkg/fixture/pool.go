package fixture

import (
	"fmt"
	"math/rand/v2"
	"unicode"
)

// DefaultNames is the pool the students fixtures have always used.
var DefaultNames = []string{"aaa", "bbb", "ccc"}

// NamePool is an ordered, non-empty set of names sampled uniformly with replacement.
type NamePool struct {
	names []string
}

// NewNamePool validates names and returns a pool over a copy of them.
func NewNamePool(names []string) (*NamePool, error) {
	if len(names) == 0 {
		return nil, ErrEmptyPool
	}
	for i, name := range names {
		if err := validateName(name); err != nil {
			return nil, fmt.Errorf("%w: #%d %q: %v", ErrInvalidName, i, name, err)
		}
	}
	return &NamePool{names: append([]string(nil), names...)}, nil
}

// DefaultPool returns a pool over DefaultNames.
func DefaultPool() *NamePool {
	return &NamePool{names: append([]string(nil), DefaultNames...)}
}

// Pick returns a uniformly chosen name.
func (p *NamePool) Pick(r *rand.Rand) string {
	return p.names[r.IntN(len(p.names))]
}

// Names returns a copy of the pool contents in order.
func (p *NamePool) Names() []string {
	return append([]string(nil), p.names...)
}

// Contains reports whether name is a member of the pool.
func (p *NamePool) Contains(name string) bool {
	for _, n := range p.names {
		if n == name {
			return true
		}
	}
	return false
}

// Len returns the number of names in the pool.
func (p *NamePool) Len() int {
	return len(p.names)
}

// Names are written into the JSON line verbatim, so anything that would need
// escaping is refused up front.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty")
	}
	for _, c := range name {
		switch {
		case c == '"' || c == '\\':
			return fmt.Errorf("contains %q", c)
		case unicode.IsControl(c):
			return fmt.Errorf("contains control character %U", c)
		case c == unicode.ReplacementChar:
			return fmt.Errorf("not valid UTF-8")
		}
	}
	return nil
}
