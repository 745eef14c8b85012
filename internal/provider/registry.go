package provider

import "sync"

// Registry resolves provider kinds to constructed variants, caching one
// instance per kind. Construction happens at most once; dispatch afterwards
// is a map lookup, never reflection.
type Registry struct {
	localBaseURL string

	mu    sync.Mutex
	cache map[Kind]Provider
}

// NewRegistry creates a Registry. localBaseURL is required to resolve
// KindLocal and ignored otherwise.
func NewRegistry(localBaseURL string) *Registry {
	return &Registry{
		localBaseURL: localBaseURL,
		cache:        make(map[Kind]Provider),
	}
}

// Resolve returns the dispatcher variant for kind, constructing it on first
// use. Unknown kinds fail with a ConfigurationError.
func (r *Registry) Resolve(kind Kind) (Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.cache[kind]; ok {
		return p, nil
	}

	opts := Options{}
	if kind == KindLocal {
		opts.BaseURL = r.localBaseURL
	}
	p, err := New(kind, opts)
	if err != nil {
		return nil, err
	}
	r.cache[kind] = p
	return p, nil
}
