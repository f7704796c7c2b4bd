package observe

import (
	"slices"
	"sync"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// Source lists the tag instances declared on a program element. How an
// element is represented is up to the source.
type Source interface {
	ObservedTagsOn(element any) ([]tag.Instance, error)
}

// Registry is a Source backed by explicit registrations. Elements are
// identified by name. A Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	elements map[string][]tag.Instance
	order    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{elements: make(map[string][]tag.Instance)}
}

// Register appends tags to the tags observed on element.
func (r *Registry) Register(element string, tags ...tag.Instance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.elements[element]; !ok {
		r.order = append(r.order, element)
	}
	r.elements[element] = append(r.elements[element], tags...)
}

// Elements returns the registered element names in registration order.
func (r *Registry) Elements() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// ObservedTagsOn returns the tags registered on element, which must be a
// string. Unregistered elements carry no tags.
func (r *Registry) ObservedTagsOn(element any) ([]tag.Instance, error) {
	name, ok := element.(string)
	if !ok {
		return nil, errs.New(errs.ErrCodeInvalidInput, "registry elements are names, got %T", element)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.elements[name]), nil
}

// Ensure Registry implements Source.
var _ Source = (*Registry)(nil)
