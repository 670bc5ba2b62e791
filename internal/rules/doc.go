// Package rules implements the tag-reduction rule engine.
//
// A Rule rewrites a set of tags into a smaller or different set. A RuleSet
// validates a collection of rules and collapses any tag set it handles down
// to master tags, the terminal outcomes the game engine applies.
//
// COLLAPSE ALGORITHM:
//
//  1. Already fully collapsed input is returned unchanged (same pointer).
//  2. Input holding a tag no rule consumes fails with UNHANDLED_TAG.
//  3. Repeat, at most once per rule:
//     a. An explicit rule whose from equals the whole set wins.
//     b. Otherwise the highest-priority non-explicit bucket with a match is
//     used. Priority maximizes |from|, then minimizes |to|.
//     c. Several matches in that bucket are a collision. Equal one-step
//     results are applied directly. Distinct results are each fully
//     collapsed; if they all end in the same set that set is the answer,
//     otherwise the collapse fails with IRRECONCILABLE_COLLISION.
//     d. No match at all fails with NO_MATCHING_RULE.
//  4. Running out of steps fails with NON_TERMINATING.
//
// Rewrites keep provenance: template tags in a rule's to set are replaced
// by the matching instances from the input.
//
// DETERMINISM:
// Buckets are searched in a fixed order and rules inside a bucket in
// declaration order, so identical inputs always produce identical outputs
// and identical errors.
package rules
