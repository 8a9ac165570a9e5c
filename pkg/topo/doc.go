// Package topo synthesizes a deduplicated node/edge topology graph from a
// filtered set of VSI records.
//
// [Synthesize] is a pure function: given the same records in the same order
// it produces byte-identical output. Each filtered record becomes one node of
// kind "vsi"; each distinct peer address becomes exactly one node of kind
// "peer" no matter how many records link to it; each (record, peer link)
// pair with a resolvable address becomes one edge. Peer links without an
// address are skipped and reported as diagnostics on the [Graph], never as
// errors.
//
// The two-row placement scheme is a deterministic placeholder - the
// visualization sink owns real layout. Node and edge identity are the
// contract; coordinates are not.
package topo
