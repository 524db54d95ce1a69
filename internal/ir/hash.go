package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for structural fingerprints.
// Version suffix enables future encoding migration.
const (
	DomainExpression = "critnf/expr/v1"
	DomainCriteria   = "critnf/criteria/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes the structural fingerprint of a canonical form.
// Two values with equal canonical JSON always share a fingerprint, so the
// fingerprint is a valid hash code for any structural equality that is
// derived from the same canonical form.
func Fingerprint(domain string, canonical any) (string, error) {
	data, err := MarshalCanonical(canonical)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	return hashWithDomain(domain, data), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Canonical forms built from Datum values never fail to marshal.
func MustFingerprint(domain string, canonical any) string {
	fp, err := Fingerprint(domain, canonical)
	if err != nil {
		panic(err)
	}
	return fp
}
