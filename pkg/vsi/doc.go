// Package vsi defines the virtual switching instance data model and the
// filter predicate evaluator.
//
// A [Record] describes one VSI as reported by the upstream controller,
// including its ordered pseudowire peer links. Records are plain values:
// the dataset is replaced wholesale on every refresh and never mutated in
// place.
//
// [Filter] reduces a dataset to the records matching user-supplied name and
// state criteria. It is a stable, side-effect-free function - the returned
// subset preserves input order and the input slice is never modified.
package vsi
