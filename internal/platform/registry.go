package platform

import (
	"fmt"
	"sort"

	"recarr/internal/contracts"
)

// Registry resolves a platform implementation by source label.
type Registry struct {
	platforms map[string]contracts.Platform
}

func NewRegistry(platforms ...contracts.Platform) *Registry {
	r := &Registry{platforms: make(map[string]contracts.Platform, len(platforms))}
	for _, p := range platforms {
		r.platforms[p.Source()] = p
	}
	return r
}

// Get returns the platform registered for the given source label.
func (r *Registry) Get(source string) (contracts.Platform, error) {
	p, ok := r.platforms[source]
	if !ok {
		return nil, fmt.Errorf("no platform registered for source %q", source)
	}
	return p, nil
}

// All returns every registered platform, ordered by source label for
// deterministic iteration.
func (r *Registry) All() []contracts.Platform {
	out := make([]contracts.Platform, 0, len(r.platforms))
	for _, p := range r.platforms {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source() < out[j].Source() })
	return out
}
