// Package tag provides the tag vocabulary the rules engine rewrites.
//
// A Tag is an identifier with optional provenance metadata recording which
// action caused it. Identity is by identifier only: two tags with the same
// identifier are equal even if their provenance differs.
//
// A small set of identifiers is reserved as master tags. Master tags are the
// terminal outcomes the game engine knows how to apply (for example Killed).
// Because identity is by identifier, whether a tag is a master tag is a
// property of its identifier, never of how it was constructed.
//
// TagSet is an immutable set of tags. Every operation returns a new set
// (or, where documented, the receiver itself when nothing changes). A nil
// *TagSet behaves like the empty set.
//
// This package imports nothing internal. All other internal packages build
// on it.
package tag
