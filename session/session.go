// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// GenerateID creates a random hex ID of the specified byte length.
// Used for poll identifiers, which are opaque and unguessable.
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewToken mints a fresh voter session token.
func NewToken() string {
	return uuid.NewString()
}

// IdentityFor derives the voter identity for a vote request. A
// well-formed client token is the identity; anything else (including an
// empty token) gets a freshly minted one. minted tells the caller to
// echo the new token back to the client for future requests.
//
// This is deliberately a weak anti-abuse mechanism: a client that
// discards its token gets a new identity and may vote again. The hard
// uniqueness check lives in the vote ledger's storage constraint, keyed
// on this identity alone. The source IP is recorded for abuse analysis
// but never rejects a vote.
func IdentityFor(token string) (identity string, minted bool) {
	if _, err := uuid.Parse(token); err == nil {
		return token, false
	}
	return NewToken(), true
}
