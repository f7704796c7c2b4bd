// Package observe supplies the tag instances present on program elements.
//
// The core never discovers tags itself; it consumes a [Source]. Two
// sources ship with the package:
//
//   - [Registry]: explicit registration keyed by element name
//   - [StructTags]: discovery from Go struct tags
//
// # Tag syntax
//
// Both the struct-tag source and [Parse] read the same textual form:
//
//	Post(path=/users, status=201); Secured(roles=[admin|ops])
//
// Instances are separated by ";". Attribute values are typed against the
// declared attribute, reached through aliases, so "201" is a number only
// where the attribute is declared as one. A single bare argument sets the
// attribute named "value": Path(/users). Strings may be double-quoted to
// keep separators; array items are separated by "|".
//
// # Struct tags
//
// Go has no type-level struct tags, so type-level tags are written on a
// blank field:
//
//	type Users struct {
//	    _      struct{} `tag:"Resource(path=/users)"`
//	    Create func()   `tag:"Post"`
//	}
package observe
