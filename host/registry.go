package host

import (
	"sort"
	"sync"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/faked/errors"
)

// Registry maps annotation names to handlers
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	version  string // faked version
}

// NewRegistry creates an empty registry for the given faked version.
func NewRegistry(fakedVersion string) *Registry {
	return &Registry{
		handlers: make(map[string]Handler),
		version:  fakedVersion,
	}
}

// Register adds a handler.
// Returns error if the name is taken or the version constraint is not met.
func (r *Registry) Register(h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta := h.Metadata()
	if meta.Name == "" {
		return errors.NewInvalidRequestError("handler has no name")
	}
	if _, exists := r.handlers[meta.Name]; exists {
		return errors.Newf("handler already registered: %s", meta.Name)
	}
	if err := r.validateVersion(meta); err != nil {
		return errors.Wrapf(err, "version incompatible for %s", meta.Name)
	}

	r.handlers[meta.Name] = h
	return nil
}

// Get retrieves a handler by annotation name
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// List returns all registered annotation names in sorted order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metadata returns every handler's metadata, sorted by name.
func (r *Registry) Metadata() []Metadata {
	names := r.List()
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Metadata, 0, len(names))
	for _, name := range names {
		out = append(out, r.handlers[name].Metadata())
	}
	return out
}

// validateVersion checks the handler's constraint against the running
// version. Development builds accept every handler.
func (r *Registry) validateVersion(meta Metadata) error {
	if meta.Requires == "" || r.version == "" || r.version == "dev" {
		return nil
	}

	current, err := semver.NewVersion(r.version)
	if err != nil {
		return errors.Wrapf(err, "invalid faked version %s", r.version)
	}

	constraint, err := semver.NewConstraint(meta.Requires)
	if err != nil {
		return errors.Wrapf(err, "invalid version constraint %s", meta.Requires)
	}

	if !constraint.Check(current) {
		return errors.Newf("handler requires faked %s, but running %s", meta.Requires, r.version)
	}
	return nil
}
