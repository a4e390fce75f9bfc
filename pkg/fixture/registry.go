package fixture

import (
	"fmt"
	"sort"
)

// Registry maps generator names to factories. Factories take the pool so a
// plan can swap names without touching generator code.
var Registry = map[string]Factory{
	"students": func(pool *NamePool) RowGenerator { return &StudentGenerator{Pool: pool} },
}

// Factory is a generator constructor from the Registry
type Factory func(pool *NamePool) RowGenerator

// Lookup returns the factory registered under name
func Lookup(name string) (Factory, error) {
	factory, exists := Registry[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGenerator, name)
	}
	return factory, nil
}

// Get returns a fresh generator by name
func Get(name string, pool *NamePool) (RowGenerator, error) {
	factory, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return factory(pool), nil
}

// List returns all registered generator names, sorted
func List() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
