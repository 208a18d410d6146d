// Package store persists user records and refresh-token revocation
// bookkeeping in Redis.
//
// Uniqueness guarantees (one user per email, one record per jti) and the
// revoke-old/insert-new rotation step are enforced server-side with Lua
// scripts, so concurrent callers never observe a half-applied write.
// Refresh-token records are only ever created and marked revoked; physical
// deletion of dead records belongs to an external cleanup job, never to
// this package.
package store
