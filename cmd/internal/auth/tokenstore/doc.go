// Package tokenstore owns the process-wide set of issued asset tokens.
//
// Each token lives from Issue until its expiry instant. Expired entries are
// evicted lazily by Validate and eagerly by the periodic Sweep; there is no
// renewal. State never leaves process memory.
package tokenstore
