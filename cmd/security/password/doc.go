// Package password hashes and verifies the shared asset password.
//
// Argon2id is the native format (PHC-like encoded string). Bcrypt hashes are
// accepted for verification so that hashes produced by older tooling keep
// working, and can be generated on request by the hashpw command.
//
// Stored hashes are treated as untrusted input: Verify refuses encodings whose
// cost parameters exceed reasonable bounds.
package password
