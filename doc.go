// Package authcore provides a token-based authentication core: user
// registration and login, short-lived JWT access tokens, long-lived
// revocable refresh tokens with rotation, and Redis-backed revocation
// bookkeeping. The sibling package breaker supplies the generic circuit
// breaker used to guard outbound calls.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build]. All per-request state is local; the only process-wide
// mutable state in the module lives inside breaker instances, which are
// explicitly owned and injected.
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder],
// [Config], and value types (User, TokenPair, MetricsSnapshot). Flow
// orchestration and audit dispatch live under internal/ and are never
// exported. Leaf packages token, password, and store are importable for
// callers that need the primitives without the engine.
//
// # What this package must NOT do
//
//   - Speak HTTP: no routing, framing, serialization, or status codes.
//     Callers map the sentinel errors of this package to their transport.
//   - Expose Redis clients or key layouts in its public API.
//   - Write the signing key, passwords, or password hashes to any audit
//     event or error message.
package authcore
