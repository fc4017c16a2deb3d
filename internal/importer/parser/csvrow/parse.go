// Package csvrow parses bank statement CSV exports into importer rows.
//
// The format across banks is anything but uniform, so the parser stays
// deliberately forgiving: it detects the delimiter, accepts a range of
// header spellings and falls back to Latin-1 when the file is not valid
// UTF-8. Rows with missing required columns are returned with a row-level
// error instead of failing the whole file.
package csvrow

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/ledgerlift/backend/internal/importer"
	"github.com/ledgerlift/backend/internal/normalize"
	"golang.org/x/text/encoding/charmap"
)

var (
	ErrEmptyFile       = errors.New("the file is empty")
	ErrNoHeader        = errors.New("the file does not contain a header row")
	ErrMissingColumns  = errors.New("the header is missing a date, amount or description column")
	ErrMalformedRecord = errors.New("the file contains a malformed CSV record")
)

// Header spellings seen in the wild, all compared lowercased and trimmed.
var (
	dateHeaders        = []string{"date", "datum", "buchungstag", "buchungsdatum", "valutadatum", "wertstellung", "payment date", "transaction date"}
	amountHeaders      = []string{"amount", "betrag", "umsatz", "betrag (eur)", "amount (eur)"}
	currencyHeaders    = []string{"currency", "waehrung", "währung"}
	descriptionHeaders = []string{"description", "verwendungszweck", "beschreibung", "buchungstext", "text", "purpose", "payee", "empfaenger", "empfänger"}
)

// Parse reads a whole CSV export and returns one row per data record.
func Parse(data []byte) ([]importer.Row, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	text, err := decode(data)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Join(ErrMalformedRecord, err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	columns, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}

	rows := make([]importer.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}

		// Row numbers are 1-based and count data rows, not file lines
		row := importer.Row{
			Number: len(rows) + 1,
			Raw:    make(map[string]string, len(record)),
		}

		for c, value := range record {
			if c < len(records[0]) {
				row.Raw[strings.TrimSpace(records[0][c])] = value
			}
		}

		row.Record = normalize.RawRecord{
			Date:        field(record, columns.date),
			Amount:      field(record, columns.amount),
			Currency:    field(record, columns.currency),
			Description: field(record, columns.description),
		}

		switch {
		case row.Record.Date == "":
			row.Err = "the date column is empty"
		case row.Record.Amount == "":
			row.Err = "the amount column is empty"
		case row.Record.Description == "":
			row.Err = "the description column is empty"
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// decode returns the file content as UTF-8, reinterpreting it as Latin-1
// when it is not valid UTF-8. Older German bank exports commonly ship
// ISO 8859-1.
func decode(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// detectDelimiter picks the delimiter that occurs most often in the
// header line, defaulting to the comma.
func detectDelimiter(text string) rune {
	header, _, _ := strings.Cut(text, "\n")

	delimiter := ','
	best := strings.Count(header, ",")

	for _, candidate := range []rune{';', '\t'} {
		if n := strings.Count(header, string(candidate)); n > best {
			delimiter = candidate
			best = n
		}
	}

	return delimiter
}

type columnMap struct {
	date        int
	amount      int
	currency    int
	description int
}

func mapColumns(header []string) (columnMap, error) {
	columns := columnMap{date: -1, amount: -1, currency: -1, description: -1}

	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))

		switch {
		case columns.date == -1 && contains(dateHeaders, name):
			columns.date = i
		case columns.amount == -1 && contains(amountHeaders, name):
			columns.amount = i
		case columns.currency == -1 && contains(currencyHeaders, name):
			columns.currency = i
		case columns.description == -1 && contains(descriptionHeaders, name):
			columns.description = i
		}
	}

	if columns.date == -1 || columns.amount == -1 || columns.description == -1 {
		return columns, ErrMissingColumns
	}

	return columns, nil
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

func field(record []string, index int) string {
	if index < 0 || index >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[index])
}

func isBlank(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
