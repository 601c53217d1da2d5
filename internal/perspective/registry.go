package perspective

import (
	"github.com/pkg/errors"
)

// Registry maps perspective names to their configuration. It is not modified
// once built.
type Registry struct {
	names  []string
	byName map[string]Perspective
}

// NewRegistry validates the perspectives and indexes them by name, keeping the
// given order for listings.
func NewRegistry(perspectives ...Perspective) (*Registry, error) {
	reg := &Registry{byName: make(map[string]Perspective, len(perspectives))}
	for _, p := range perspectives {
		err := p.Validate()
		if err != nil {
			return nil, err
		}
		if _, ok := reg.byName[p.Name]; ok {
			return nil, errors.Wrapf(ErrInvalidPerspective, "%s: defined twice", p.Name)
		}
		reg.names = append(reg.names, p.Name)
		reg.byName[p.Name] = p
	}

	return reg, nil
}

// Default returns the registry of built-in perspectives.
func Default() *Registry {
	reg, err := NewRegistry(Builtins()...)
	if err != nil {
		panic(err)
	}

	return reg
}

// Resolve looks a perspective up by name.
func (r *Registry) Resolve(name string) (Perspective, error) {
	p, ok := r.byName[name]
	if !ok {
		return Perspective{}, errors.Wrap(ErrUnknownPerspective, name)
	}

	return p, nil
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	return append([]string{}, r.names...)
}

// All returns the registered perspectives in registration order.
func (r *Registry) All() []Perspective {
	res := make([]Perspective, 0, len(r.names))
	for _, name := range r.names {
		res = append(res, r.byName[name])
	}

	return res
}
