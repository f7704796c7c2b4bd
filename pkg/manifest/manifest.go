// Package manifest reads tag type descriptors and element tags from TOML.
//
// A manifest declares tag types with [[tag]] tables and, optionally, the
// program elements carrying tags with [[element]] tables:
//
//	[[tag]]
//	name = "Route"
//	  [[tag.attribute]]
//	  name = "method"
//	  type = "enum"
//	  enum = ["GET", "POST"]
//	  default = "GET"
//
//	[[tag]]
//	name = "Post"
//	extends = ["Route"]
//	override = { method = "POST" }
//
//	[[element]]
//	name = "CreateUser"
//	tags = ["Post(path=/users)"]
//
// An attribute without a default is required. Default and override values
// are typed against the declared attribute, inherited ones included.
package manifest

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/observe"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// Manifest is a decoded manifest file.
type Manifest struct {
	Tags     []TagDecl     `toml:"tag"`
	Elements []ElementDecl `toml:"element"`

	// Path is the file the manifest was read from, if any.
	Path string `toml:"-"`
}

// TagDecl declares one tag type.
type TagDecl struct {
	Name       string          `toml:"name"`
	Extends    []string        `toml:"extends"`
	Composes   []string        `toml:"composes"`
	Override   map[string]any  `toml:"override"`
	Attributes []AttributeDecl `toml:"attribute"`
	Aliases    []AliasDecl     `toml:"alias"`
}

// AttributeDecl declares an attribute. A nil Default makes it required.
type AttributeDecl struct {
	Name    string   `toml:"name"`
	Type    string   `toml:"type"`
	Enum    []string `toml:"enum"`
	Default any      `toml:"default"`
}

// AliasDecl declares an alias; Component is set for composite aliases.
type AliasDecl struct {
	Name      string `toml:"name"`
	Target    string `toml:"target"`
	Component string `toml:"component"`
}

// ElementDecl lists the tags on a named program element, in tag syntax.
type ElementDecl struct {
	Name string   `toml:"name"`
	Tags []string `toml:"tags"`
}

// Parse decodes a manifest. Unknown keys are rejected so that typos do not
// silently drop declarations.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "decode manifest")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidManifest, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return &m, nil
}

// ReadFile reads and decodes the manifest at path.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "manifest %s not found", path)
	}
	if err != nil {
		return nil, err
	}
	m, err := Parse(data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "%s", path)
	}
	m.Path = path
	return m, nil
}

// Descriptors converts the declared tag types into descriptors, in
// declaration order.
func (m *Manifest) Descriptors() ([]tag.Descriptor, error) {
	byName := make(map[string]*TagDecl, len(m.Tags))
	for i := range m.Tags {
		byName[m.Tags[i].Name] = &m.Tags[i]
	}

	descs := make([]tag.Descriptor, 0, len(m.Tags))
	for i := range m.Tags {
		d, err := m.descriptor(&m.Tags[i], byName)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidManifest, err, "tag %s", m.Tags[i].Name).WithType(m.Tags[i].Name)
		}
		descs = append(descs, d)
	}
	return descs, nil
}

func (m *Manifest) descriptor(decl *TagDecl, byName map[string]*TagDecl) (tag.Descriptor, error) {
	d := tag.Descriptor{
		Name:     tag.ID(decl.Name),
		Extends:  ids(decl.Extends),
		Composes: ids(decl.Composes),
	}

	for _, a := range decl.Attributes {
		t, err := attributeType(a)
		if err != nil {
			return tag.Descriptor{}, err
		}
		spec := tag.AttributeSpec{Name: a.Name, Type: t}
		if a.Default != nil {
			v, err := tag.Coerce(a.Default, t)
			if err != nil {
				return tag.Descriptor{}, errs.Wrap(errs.GetCode(err), err, "default of %s", a.Name).WithAttribute(a.Name)
			}
			spec.Default = &v
		}
		d.Attributes = append(d.Attributes, spec)
	}

	for _, name := range slices.Sorted(maps.Keys(decl.Override)) {
		raw := decl.Override[name]
		var (
			v   tag.Value
			err error
		)
		if t, ok := inheritedType(decl, name, byName); ok {
			v, err = tag.Coerce(raw, t)
		} else {
			v, err = tag.Infer(raw)
		}
		if err != nil {
			return tag.Descriptor{}, errs.Wrap(errs.GetCode(err), err, "override of %s", name).WithAttribute(name)
		}
		d.Overrides = append(d.Overrides, tag.Override{Attribute: name, Value: v})
	}

	for _, a := range decl.Aliases {
		d.Aliases = append(d.Aliases, tag.Alias{Name: a.Name, Target: a.Target, Component: tag.ID(a.Component)})
	}
	return d, nil
}

// Registry parses the element tables into an observation registry typed
// against h.
func (m *Manifest) Registry(h *hierarchy.Hierarchy) (*observe.Registry, error) {
	reg := observe.NewRegistry()
	for _, el := range m.Elements {
		if el.Name == "" {
			return nil, errs.New(errs.ErrCodeInvalidManifest, "element without a name")
		}
		var tags []tag.Instance
		for _, text := range el.Tags {
			insts, err := observe.Parse(h, text)
			if err != nil {
				return nil, errs.Wrap(errs.GetCode(err), err, "element %s", el.Name)
			}
			tags = append(tags, insts...)
		}
		reg.Register(el.Name, tags...)
	}
	return reg, nil
}

func attributeType(a AttributeDecl) (tag.Type, error) {
	t, err := tag.ParseType(a.Type)
	if err != nil {
		return tag.Type{}, errs.Wrap(errs.ErrCodeInvalidManifest, err, "attribute %s", a.Name).WithAttribute(a.Name)
	}
	if len(a.Enum) > 0 {
		if t.Kind != tag.KindEnum && t.Elem != tag.KindEnum {
			return tag.Type{}, errs.New(errs.ErrCodeInvalidManifest, "attribute %s lists enum symbols but is a %s", a.Name, t).
				WithAttribute(a.Name)
		}
		t.Enum = slices.Clone(a.Enum)
	}
	return t, nil
}

// inheritedType finds the declared type of name among the ancestors of decl
// declared in the same manifest, nearest first.
func inheritedType(decl *TagDecl, name string, byName map[string]*TagDecl) (tag.Type, bool) {
	seen := map[string]bool{decl.Name: true}
	queue := slices.Clone(decl.Extends)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if seen[n] {
			continue
		}
		seen[n] = true
		p, ok := byName[n]
		if !ok {
			continue
		}
		for _, a := range p.Attributes {
			if a.Name == name {
				t, err := attributeType(a)
				return t, err == nil
			}
		}
		queue = append(queue, p.Extends...)
	}
	return tag.Type{}, false
}

func ids(names []string) []tag.ID {
	if len(names) == 0 {
		return nil
	}
	out := make([]tag.ID, len(names))
	for i, n := range names {
		out[i] = tag.ID(n)
	}
	return out
}
