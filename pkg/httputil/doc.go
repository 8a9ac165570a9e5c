// Package httputil provides HTTP client helpers shared by upstream data
// sources: retry with exponential backoff for transient failures.
//
// Wrap errors that should trigger a retry (timeouts, 5xx responses) with
// [RetryableError]; everything else aborts immediately.
package httputil
