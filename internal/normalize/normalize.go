// Package normalize collapses raw column-mapped statement rows into the
// canonical record the rest of the ingestion engine consumes.
//
// Numeric and date parsing are format-drift aware: the dominant separator
// and date pattern are sampled per batch, rows disagreeing with the
// dominant format are degraded to invalid with a diagnostic instead of
// aborting the batch or being guessed silently.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RawRecord is the column-mapped tuple a format parser hands the engine.
type RawRecord struct {
	Date        string
	Amount      string
	Currency    string // optional, defaults to EUR
	Description string
}

// Record is the canonical shape of a successfully normalized row.
type Record struct {
	Date            time.Time
	AmountCents     int64 // signed, minor units
	Currency        string
	DescriptionRaw  string
	DescriptionNorm string
}

// AmountFormat is the numeric separator convention of a batch.
type AmountFormat string

const (
	AmountFormatEuropean AmountFormat = "european" // 1.234,56
	AmountFormatUS       AmountFormat = "us"       // 1,234.56
	AmountFormatUnknown  AmountFormat = "unknown"
)

var (
	ErrAmountEmpty      = errors.New("the amount is empty")
	ErrAmountInvalid    = errors.New("the amount could not be parsed")
	ErrAmountAmbiguous  = errors.New("the amount separator usage is ambiguous for this batch")
	ErrDateEmpty        = errors.New("the date is empty")
	ErrDateInvalid      = errors.New("the date does not match the dominant format of this batch")
	ErrDescriptionEmpty = errors.New("the description is empty")
)

// stripMarks removes combining marks after NFD decomposition, turning
// "Müller Straße" into "Muller Straße" territory - ß is not a mark and
// survives, accents do not.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Description returns the matching and fingerprint form of a description:
// uppercase, diacritics stripped, whitespace collapsed.
func Description(s string) string {
	stripped, _, err := transform.String(stripMarks, s)
	if err != nil {
		// Transform only fails on invalid UTF-8, fall back to the input
		stripped = s
	}

	return strings.ToUpper(strings.Join(strings.Fields(stripped), " "))
}

// DetectAmountFormat samples the separator usage across all amounts of a
// batch and returns the dominant convention. When the samples do not agree
// on a convention, AmountFormatUnknown is returned and the caller is
// expected to flag the batch instead of guessing.
func DetectAmountFormat(samples []string) AmountFormat {
	var european, us int

	for _, s := range samples {
		switch voteAmountFormat(s) {
		case AmountFormatEuropean:
			european++
		case AmountFormatUS:
			us++
		}
	}

	switch {
	case european > us:
		return AmountFormatEuropean
	case us > european:
		return AmountFormatUS
	default:
		return AmountFormatUnknown
	}
}

// voteAmountFormat classifies a single amount string, returning
// AmountFormatUnknown when the string alone does not give the convention
// away (e.g. "1,234" is a valid number in both).
func voteAmountFormat(s string) AmountFormat {
	s = strings.TrimSpace(s)
	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")

	// Both separators present: the one closer to the end is the decimal mark
	if lastComma >= 0 && lastDot >= 0 {
		if lastComma > lastDot {
			return AmountFormatEuropean
		}
		return AmountFormatUS
	}

	// A single separator followed by one or two digits is a decimal mark.
	// Three digits could be a thousands group, no vote.
	if lastComma >= 0 && strings.Count(s, ",") == 1 {
		if d := len(s) - lastComma - 1; d >= 1 && d <= 2 {
			return AmountFormatEuropean
		}
	}
	if lastDot >= 0 && strings.Count(s, ".") == 1 {
		if d := len(s) - lastDot - 1; d >= 1 && d <= 2 {
			return AmountFormatUS
		}
	}

	return AmountFormatUnknown
}

// ParseAmount parses an amount string according to the batch's dominant
// format and returns signed minor units.
//
// With AmountFormatUnknown, rows that are unambiguous on their own still
// parse; genuinely ambiguous rows return ErrAmountAmbiguous.
func ParseAmount(s string, format AmountFormat) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrAmountEmpty
	}

	format = resolveRowFormat(s, format)

	var cleaned string
	switch format {
	case AmountFormatEuropean:
		cleaned = strings.ReplaceAll(s, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case AmountFormatUS:
		cleaned = strings.ReplaceAll(s, ",", "")
	default:
		if strings.ContainsAny(s, ".,") {
			return 0, ErrAmountAmbiguous
		}
		cleaned = s
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrAmountInvalid, s)
	}

	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("%w: %q has more than two decimal places", ErrAmountInvalid, s)
	}

	return cents.IntPart(), nil
}

// resolveRowFormat upgrades an unknown batch format to a row-local one when
// the row is unambiguous by itself.
func resolveRowFormat(s string, format AmountFormat) AmountFormat {
	if format != AmountFormatUnknown {
		return format
	}
	return voteAmountFormat(s)
}

// dateLayouts are the supported input formats, checked in this order.
var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"02.01.06",
	"02/01/2006",
	"02/01/06",
}

// DetectDateFormat samples the dates of a batch and returns the layout
// that parses the most rows. An empty string means no layout matched any
// row.
func DetectDateFormat(samples []string) string {
	best := ""
	bestCount := 0

	for _, layout := range dateLayouts {
		count := 0
		for _, s := range samples {
			if _, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				count++
			}
		}
		if count > bestCount {
			best = layout
			bestCount = count
		}
	}

	return best
}

// ParseDate parses a date using the batch's dominant layout. Rows that do
// not match degrade to invalid, they are never reinterpreted with another
// layout.
func ParseDate(s, layout string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrDateEmpty
	}
	if layout == "" {
		return time.Time{}, ErrDateInvalid
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateInvalid, s)
	}

	// Two-digit years pivot at 50: 49 is 2049, 50 is 1950. Go's own pivot
	// differs, so correct the window Go puts into the 2000s.
	if strings.Contains(layout, "06") && !strings.Contains(layout, "2006") {
		if y := t.Year(); y >= 2050 {
			t = t.AddDate(-100, 0, 0)
		}
	}

	return t.UTC(), nil
}

// Normalizer holds the per-batch dominant formats. Create one per batch
// with ForBatch, then normalize each row through Record.
type Normalizer struct {
	AmountFormat AmountFormat
	DateLayout   string
}

// ForBatch samples all raw records of a batch and fixes the dominant
// amount and date formats for it.
func ForBatch(records []RawRecord) Normalizer {
	amounts := make([]string, 0, len(records))
	dates := make([]string, 0, len(records))
	for _, r := range records {
		amounts = append(amounts, r.Amount)
		dates = append(dates, r.Date)
	}

	return Normalizer{
		AmountFormat: DetectAmountFormat(amounts),
		DateLayout:   DetectDateFormat(dates),
	}
}

// Record normalizes one raw record. Any error means the row is invalid;
// the error message is the row's diagnostic.
func (n Normalizer) Record(raw RawRecord) (Record, error) {
	descRaw := strings.TrimSpace(raw.Description)
	if descRaw == "" {
		return Record{}, ErrDescriptionEmpty
	}

	date, err := ParseDate(raw.Date, n.DateLayout)
	if err != nil {
		return Record{}, err
	}

	cents, err := ParseAmount(raw.Amount, n.AmountFormat)
	if err != nil {
		return Record{}, err
	}

	currency := strings.ToUpper(strings.TrimSpace(raw.Currency))
	if currency == "" {
		currency = "EUR"
	}

	return Record{
		Date:            date,
		AmountCents:     cents,
		Currency:        currency,
		DescriptionRaw:  descRaw,
		DescriptionNorm: Description(descRaw),
	}, nil
}
