// Package token provides opaque bearer-token primitives.
//
// Tokens are random hex strings. Servers keep only a digest of each token:
// SHA-256 by default, HMAC-SHA256 when PORTFOLIO_TOKEN_HMAC_KEY is set.
// Digests are 64-char hex.
package token
