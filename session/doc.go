// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session handles voter identity tokens and random identifiers.

Voters are anonymous. The only thing distinguishing one voter from
another is an opaque session token (a UUID) minted on their first vote
and stored client-side. IdentityFor is both the validator and the
issuer: a well-formed token passes through as the identity, a missing or
malformed one is replaced with a fresh token that the caller must return
to the client.

The guarantee is intentionally "one vote per browser session, easily
reset". Strengthening it (IP-based rejection, fingerprinting) would
change observable product behavior and is out of scope.
*/
package session
