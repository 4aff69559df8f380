// Package assets lists asset directories and opens token-gated files.
//
// Listings are recomputed from disk on every call. Gated files are resolved
// inside a single protected directory; both the lexical path and the
// symlink-resolved path must stay inside it.
package assets
