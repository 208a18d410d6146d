// Package password provides one-way argon2id password hashing in PHC
// string format and constant-time verification.
//
// Hashing is deliberately expensive (tune Config toward ~100-500ms on the
// target hardware). Plaintext passwords and encoded hashes are never
// logged by this package; callers must uphold the same rule.
package password
