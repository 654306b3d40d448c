package pii

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// CountryCode is the Chilean calling code used for phone match keys.
	CountryCode = "56"

	eventIDPrefix = "broker"
	suffixLen     = 9
)

// Hash normalizes raw (trim, lowercase) and returns its SHA-256 digest as
// lowercase hex. Upstream matching requires the exact same normalization on
// every reporting path, so Hash is the only place it happens.
func Hash(raw string) (string, error) {
	if !utf8.ValidString(raw) {
		return "", fmt.Errorf("pii hash: input is not valid utf-8")
	}

	normalized := strings.ToLower(strings.TrimSpace(raw))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:]), nil
}

// NormalizePhone reduces a phone number to country-code-prefixed digits.
// Display formatting, spaces and the leading plus are stripped; local
// numbers (including the national mobile prefix form) get the country code
// prepended. Idempotent: a normalized number passes through unchanged.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if digits == "" || strings.HasPrefix(digits, CountryCode) {
		return digits
	}
	// Covers both the national mobile prefix form (9...) and plain local
	// numbers.
	return CountryCode + digits
}

// SplitName splits a full name into given and family parts. The family part
// is every token after the first, joined by single spaces; a single-token
// name reuses the given name so no empty family hash is ever emitted.
func SplitName(full string) (first, last string) {
	tokens := strings.Fields(full)
	if len(tokens) == 0 {
		return "", ""
	}
	first = tokens[0]
	if len(tokens) == 1 {
		return first, first
	}
	return first, strings.Join(tokens[1:], " ")
}

// EventID returns a fresh de-duplication key in the form
// broker_<unix-millis>_<suffix>. The same ID must be shared between the
// client pixel call and the server relay call for one conversion, which is
// why callers generate it once and pass it along.
func EventID() string {
	return fmt.Sprintf("%s_%d_%s", eventIDPrefix, time.Now().UnixMilli(), randomSuffix())
}

// ExternalID returns a per-lead identifier in the form broker_<unix-millis>.
func ExternalID() string {
	return fmt.Sprintf("%s_%d", eventIDPrefix, time.Now().UnixMilli())
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
}
