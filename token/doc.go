// Package token creates and validates the signed claim-bearing tokens of
// a token pair.
//
// The codec is pinned to HS256: the verifier enumerates the accepted
// algorithm explicitly, so "alg":"none" or alternate-algorithm tokens are
// rejected regardless of payload. Access and refresh tokens carry a type
// claim and are never interchangeable — presenting one where the other is
// expected is a validity failure, not an expiry.
package token
