package session

import (
	"fmt"
	"sort"

	"github.com/qhwu/CN-Trade-Sessions/internal/product"
)

// Registry maps session ids to built Sessions. The discipline is load,
// then freeze, then read: run every Load call first, after that the
// registry is never mutated and all queries are safe for concurrent use
// without locking.
type Registry struct {
	sessions  map[string]*Session
	byProduct map[string]string
	products  map[string][]string
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:  make(map[string]*Session),
		byProduct: make(map[string]string),
		products:  make(map[string][]string),
	}
}

// Load builds and registers every definition in specs. An id already
// present is skipped, keeping the first-loaded definition. The call is
// all-or-nothing: if any definition is malformed, nothing from specs is
// registered.
func (r *Registry) Load(specs map[string]Spec) error {
	built := make(map[string]*Session, len(specs))
	for id, sp := range specs {
		if _, ok := r.sessions[id]; ok {
			continue
		}
		s, err := New(id, sp)
		if err != nil {
			return fmt.Errorf("load sessions: %w", err)
		}
		built[id] = s
	}

	for id, s := range built {
		r.sessions[id] = s
		for _, p := range specs[id].Products {
			p = product.Normalize(p)
			if p == "" {
				continue
			}
			if _, taken := r.byProduct[p]; taken {
				continue
			}
			r.byProduct[p] = id
			r.products[id] = append(r.products[id], p)
		}
	}
	return nil
}

// Get returns the session registered under id.
func (r *Registry) Get(id string) (*Session, bool) {
	s, ok := r.sessions[id]
	return s, ok
}

// IDs returns all registered session ids, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve maps an instrument code like "rb2410.SHF" to the session its
// product is bound to.
func (r *Registry) Resolve(instrument string) (*Session, bool) {
	p, err := product.Of(instrument)
	if err != nil {
		return nil, false
	}
	id, ok := r.byProduct[p]
	if !ok {
		return nil, false
	}
	return r.Get(id)
}

// Describe re-emits the full wire spec for id, including the product
// bindings the registry holds for it.
func (r *Registry) Describe(id string) (Spec, bool) {
	s, ok := r.sessions[id]
	if !ok {
		return Spec{}, false
	}
	d := s.Describe()
	d.Products = append([]string(nil), r.products[id]...)
	return d, true
}
