// Package source provides data source adapters that supply the raw VSI
// record collection.
//
// [HTTPSource] fetches records from the controller's REST endpoint with
// retry and optional response caching; [FileSource] loads them from a JSON
// file for fixtures and air-gapped use. Both validate the caller contract:
// a record without an ID fails the whole fetch, because a broken data source
// is a bug to surface, not a condition to mask.
//
// Only the most recent response matters to consumers - the orchestrator in
// pkg/pipeline enforces last-issued-wins on completions.
package source
