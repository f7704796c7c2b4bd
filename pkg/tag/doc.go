// Package tag defines the data model shared by every tagmagic package:
// tag type identifiers, typed attribute values, attribute specs, overrides,
// aliases, descriptors and instances.
//
// # Values
//
// Attribute values are [Value]s carrying their [Kind]. A [Type] declares what
// an attribute accepts and [Type.Accepts] is the only compatibility rule:
//
//	method := tag.EnumOf("GET", "POST")
//	method.Accepts(tag.Enum("GET"))   // true
//	method.Accepts(tag.String("GET")) // false, no coercion between kinds
//
// [Coerce] and [Parse] exist for collaborators that read values from text or
// decoded documents (manifests, struct tags); they change representation but
// never kind.
//
// # Descriptors
//
// A [Descriptor] is what callers supply for each tag type:
//
//	tag.Descriptor{
//	    Name:       "Post",
//	    Extends:    []tag.ID{"Route"},
//	    Attributes: []tag.AttributeSpec{tag.Optional("path", tag.StringType, tag.String(""))},
//	    Overrides:  []tag.Override{{Attribute: "method", Value: tag.Enum("POST")}},
//	}
//
// # Instances
//
// An [Instance] is an observed tag: a type plus explicitly set values.
//
//	i := tag.Of("Post").With("path", tag.String("/users"))
package tag
