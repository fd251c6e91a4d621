package storage

import (
	"fmt"
)

// Preference is the order backends are tried in when none is named
var Preference = []string{"sqlite", "file", "memory"}

// Open opens the named backend from the global registry.
// If name is empty, it tries Preference in order and returns the first
// backend that opens.
func Open(name string, opts Options) (Backend, error) {
	return defaultRegistry.Open(name, opts)
}

// Open opens the named backend, or the first backend in Preference that
// opens when name is empty
func (r *Registry) Open(name string, opts Options) (Backend, error) {
	if name != "" {
		// Use specified backend
		backend, err := r.Create(name, opts)
		if err != nil {
			return nil, fmt.Errorf("opening %s storage: %w", name, err)
		}
		return backend, nil
	}

	// Try backends in order of preference
	var lastErr error
	for _, candidate := range Preference {
		backend, err := r.Create(candidate, opts)
		if err != nil {
			opts.Logger.Warn().Err(err).Str("backend", candidate).Msg("storage backend unavailable, trying next")
			lastErr = err
			continue
		}
		return backend, nil
	}

	return nil, fmt.Errorf("no storage backend could be opened: %w", lastErr)
}
