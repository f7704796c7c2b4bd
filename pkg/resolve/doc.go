// Package resolve computes effective attribute values of tag instances.
//
// The effective value of an attribute is found in this order:
//
//  1. The name is redirected through the instance type's aliases.
//  2. A value the instance sets explicitly wins. A value set under an alias
//     of the attribute counts too; the canonical name beats aliases, and
//     aliases are consulted in sorted order.
//  3. Otherwise the first type in [hierarchy.Hierarchy.Chain] that declares
//     an override or the spec of the attribute supplies its value.
//
// The (type, attribute) -> source mapping does not depend on the instance,
// so it is cached per type and never invalidated. Values are returned with
// their declared kind; nothing is coerced.
//
// A Resolver is safe for concurrent use.
package resolve
