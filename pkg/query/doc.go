// Package query answers "does this element carry a tag that is-a T" over
// the tag instances observed on a program element.
//
// A [Facade] reads a built hierarchy through a resolver. Observed instances
// are supplied by an observation source (see package observe) or by the
// caller; the facade never retains them.
//
// Before every query, composite instances are expanded in place into one
// synthetic instance per component, carrying the values the composite maps
// onto that component. The composite instance itself is kept only when its
// type extends another type. Expansion is one level deep.
package query
