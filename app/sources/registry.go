package sources

import (
	"fmt"
	"sync"
)

// Registry holds the configured source adapters keyed by platform tag.
// Platforms without credentials are simply not registered; the orchestrator
// treats a missing platform as a skipped source.
type Registry struct {
	mu      sync.RWMutex
	sources map[Platform]Source
}

func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[Platform]Source),
	}
}

func (r *Registry) Register(source Source) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[source.Platform()] = source
}

func (r *Registry) Get(platform Platform) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source, ok := r.sources[platform]
	if !ok {
		return nil, fmt.Errorf("no source registered for platform '%s'", platform)
	}
	return source, nil
}

func (r *Registry) Platforms() []Platform {
	r.mu.RLock()
	defer r.mu.RUnlock()

	platforms := make([]Platform, 0, len(r.sources))
	for p := range r.sources {
		platforms = append(platforms, p)
	}
	return platforms
}
