package definition

import (
	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// Loader produces Definitions from descriptors and remembers what it loaded,
// so later descriptors may extend earlier ones.
//
// The zero value is not usable - use NewLoader. A Loader is not safe for
// concurrent use.
type Loader struct {
	defs  map[tag.ID]*Definition
	order []*Definition
}

// NewLoader returns a loader that already knows the given definitions, for
// example the output of another loader.
func NewLoader(known ...*Definition) *Loader {
	l := &Loader{defs: make(map[tag.ID]*Definition, len(known))}
	for _, d := range known {
		if _, ok := l.defs[d.id]; ok {
			continue
		}
		l.defs[d.id] = d
		l.order = append(l.order, d)
	}
	return l
}

// Definitions returns every definition the loader knows, in load order.
func (l *Loader) Definitions() []*Definition {
	return append([]*Definition(nil), l.order...)
}

// Lookup returns a loaded definition by name.
func (l *Loader) Lookup(id tag.ID) (*Definition, bool) {
	d, ok := l.defs[id]
	return d, ok
}

// Load validates one descriptor against the definitions loaded so far and
// registers it. Parents and components must already be loaded.
func (l *Loader) Load(desc tag.Descriptor) (*Definition, error) {
	if err := checkName(desc.Name); err != nil {
		return nil, err
	}
	if _, ok := l.defs[desc.Name]; ok {
		return nil, duplicateType(desc.Name)
	}
	def := newDefinition(desc)
	if err := validate(def, l.lookup(nil)); err != nil {
		return nil, err
	}
	l.register(def)
	return def, nil
}

// LoadAll loads a batch of descriptors supplied in any order. The first pass
// registers every name; the second validates each descriptor against the
// batch and the definitions loaded before. Either the whole batch is
// registered or nothing is.
func (l *Loader) LoadAll(descs []tag.Descriptor) ([]*Definition, error) {
	batch := make(map[tag.ID]*Definition, len(descs))
	defs := make([]*Definition, 0, len(descs))
	for _, desc := range descs {
		if err := checkName(desc.Name); err != nil {
			return nil, err
		}
		if _, ok := l.defs[desc.Name]; ok {
			return nil, duplicateType(desc.Name)
		}
		if _, ok := batch[desc.Name]; ok {
			return nil, duplicateType(desc.Name)
		}
		def := newDefinition(desc)
		batch[desc.Name] = def
		defs = append(defs, def)
	}

	lookup := l.lookup(batch)
	for _, def := range defs {
		if err := validate(def, lookup); err != nil {
			return nil, err
		}
	}
	for _, def := range defs {
		l.register(def)
	}
	return defs, nil
}

func (l *Loader) register(def *Definition) {
	l.defs[def.id] = def
	l.order = append(l.order, def)
}

type lookupFunc func(tag.ID) (*Definition, bool)

func (l *Loader) lookup(batch map[tag.ID]*Definition) lookupFunc {
	return func(id tag.ID) (*Definition, bool) {
		if d, ok := batch[id]; ok {
			return d, true
		}
		d, ok := l.defs[id]
		return d, ok
	}
}

func checkName(id tag.ID) error {
	if err := errs.ValidateName(string(id)); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid tag type name").WithType(string(id))
	}
	return nil
}

func duplicateType(id tag.ID) error {
	return errs.New(errs.ErrCodeDuplicateTagType, "tag type %s is already loaded", id).WithType(string(id))
}
