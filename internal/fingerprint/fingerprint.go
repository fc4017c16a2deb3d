// Package fingerprint derives the content hash used for deduplication.
package fingerprint

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"

	"github.com/ledgerlift/backend/internal/normalize"
)

// Hash returns the deterministic fingerprint of a normalized record.
//
// The inputs are the normalized date, the absolute amount in minor units,
// the normalized description and the currency. The sign is part of type
// classification, not identity, and row position and filename are
// deliberately excluded: the same transaction exported into two different
// files collapses to one fingerprint.
func Hash(r normalize.Record) string {
	cents := r.AmountCents
	if cents < 0 {
		cents = -cents
	}

	input := strings.Join([]string{
		r.Date.Format("2006-01-02"),
		strconv.FormatInt(cents, 10),
		r.DescriptionNorm,
		strings.ToUpper(r.Currency),
	}, "|")

	return fmt.Sprintf("%x", sha256.Sum256([]byte(input)))
}

// File returns the content hash of a raw uploaded file, used for the
// whole-file idempotency guard.
func File(b []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(b))
}
