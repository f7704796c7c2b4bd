package observe

import (
	"strings"

	errs "github.com/matzehuels/tagmagic/pkg/errors"
	"github.com/matzehuels/tagmagic/pkg/hierarchy"
	"github.com/matzehuels/tagmagic/pkg/tag"
)

// DefaultAttribute receives a single bare argument: Path(/users).
const DefaultAttribute = "value"

// Parse reads a list of tag instances in the textual tag syntax, typing
// every value against the attribute h declares for it.
func Parse(h *hierarchy.Hierarchy, text string) ([]tag.Instance, error) {
	parts, err := splitTop(text, ';')
	if err != nil {
		return nil, err
	}
	var out []tag.Instance
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		inst, err := ParseInstance(h, part)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	return out, nil
}

// ParseInstance reads one instance: Name or Name(args).
func ParseInstance(h *hierarchy.Hierarchy, text string) (tag.Instance, error) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "@")
	name, args, hasArgs := strings.Cut(text, "(")
	name = strings.TrimSpace(name)
	if hasArgs {
		if !strings.HasSuffix(args, ")") {
			return tag.Instance{}, syntax(text, "missing closing parenthesis")
		}
		args = strings.TrimSuffix(args, ")")
	}
	if err := errs.ValidateName(name); err != nil {
		return tag.Instance{}, errs.Wrap(errs.ErrCodeInvalidTagSyntax, err, "bad tag name in %q", text)
	}
	id := tag.ID(name)
	if !h.Has(id) {
		return tag.Instance{}, errs.New(errs.ErrCodeUnknownTagType, "unknown tag type %s", id).WithType(name)
	}

	inst := tag.Of(id)
	if strings.TrimSpace(args) == "" {
		return inst, nil
	}
	pairs, err := splitTop(args, ',')
	if err != nil {
		return tag.Instance{}, err
	}
	set := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := cutAssign(pair)
		if !ok {
			if len(pairs) != 1 {
				return tag.Instance{}, syntax(text, "argument %q has no name", strings.TrimSpace(pair))
			}
			key, raw = DefaultAttribute, pair
		}
		if err := errs.ValidateAttributeName(key); err != nil {
			return tag.Instance{}, errs.Wrap(errs.ErrCodeInvalidTagSyntax, err, "bad attribute in %q", text)
		}
		canonical := h.ResolveAlias(id, key)
		if prev, dup := set[canonical]; dup {
			if prev == key {
				return tag.Instance{}, syntax(text, "attribute %q set twice", key)
			}
			return tag.Instance{}, syntax(text, "%q and %q both set %q", prev, key, canonical)
		}
		set[canonical] = key
		spec, ok := h.Spec(id, canonical)
		if !ok {
			return tag.Instance{}, errs.New(errs.ErrCodeUnknownAttribute, "%s has no attribute %q", id, key).
				WithType(name).WithAttribute(key)
		}
		v, err := tag.Parse(raw, spec.Type)
		if err != nil {
			return tag.Instance{}, err
		}
		inst = inst.With(key, v)
	}
	return inst, nil
}

// cutAssign splits "key=value" at the first "=" outside quotes.
func cutAssign(pair string) (key, value string, ok bool) {
	inQuote := false
	for i := 0; i < len(pair); i++ {
		switch pair[i] {
		case '"':
			inQuote = !inQuote
		case '=':
			if !inQuote {
				return strings.TrimSpace(pair[:i]), pair[i+1:], true
			}
		}
	}
	return "", pair, false
}

// splitTop splits s at sep where sep is outside quotes, parentheses and
// brackets.
func splitTop(s string, sep byte) ([]string, error) {
	var (
		parts   []string
		depth   int
		inQuote bool
		start   int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && inQuote:
			i++
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
			if depth < 0 {
				return nil, syntax(s, "unbalanced %q", c)
			}
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	if inQuote {
		return nil, syntax(s, "unterminated string")
	}
	if depth != 0 {
		return nil, syntax(s, "unbalanced brackets")
	}
	return append(parts, s[start:]), nil
}

func syntax(text, format string, args ...any) error {
	e := errs.New(errs.ErrCodeInvalidTagSyntax, format, args...)
	e.Message = e.Message + " in " + `"` + text + `"`
	return e
}
