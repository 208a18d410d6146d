// Package breaker implements a three-state circuit breaker for guarding
// calls to fragile external dependencies.
//
// A [Breaker] guards exactly one named downstream dependency. It is not
// specific to authentication: any outbound call the surrounding service
// makes can be wrapped in [Breaker.Do] or [Breaker.DoWithFallback].
// Instances are explicitly owned and injectable — there is no package-level
// singleton — so tests construct isolated breakers and each protected
// dependency gets its own.
//
// All state (current state, consecutive failure count, last failure time,
// half-open probe count) lives behind a single mutex. Admission decisions,
// including the open→half-open elapsed-time check and the half-open probe
// budget, are evaluated and recorded in one critical section; the wrapped
// call itself runs outside the lock. Cancellation and timeout of the
// wrapped call are the caller's responsibility — the breaker only observes
// whether the call returned an error.
package breaker
