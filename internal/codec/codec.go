// Package codec reads and writes the line-oriented durable log.
//
// Lines are written in the legacy format: the food name is always quoted with
// embedded quotes doubled, every other field is bare. Reading uses a
// quote-aware parser, so a food name holding a comma survives the round trip.
package codec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"kitchenlog"
	"kitchenlog/internal/models"
)

// BOM is the UTF-8 byte-order mark prepended to exports.
const BOM = "\ufeff"

// Quote wraps v in double quotes, doubling any quote inside it.
func Quote(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// EncodeLine renders one log line without the trailing newline.
func EncodeLine(r models.CookRow, s Schema) string {
	vals := s.Values(r)
	vals[0] = Quote(vals[0])
	return strings.Join(vals, ",")
}

// DecodeLine parses one data line laid out as s.
func DecodeLine(line string, s Schema) (models.CookRow, error) {
	rd := csv.NewReader(strings.NewReader(line))
	rd.FieldsPerRecord = -1
	rd.LazyQuotes = true

	fields, err := rd.Read()
	if err != nil {
		return models.CookRow{}, fmt.Errorf("read fields: %w", err)
	}
	if len(fields) < s.Columns() {
		return models.CookRow{}, fmt.Errorf("expected %d fields, got %d", s.Columns(), len(fields))
	}
	row := s.Row(fields)
	row.Food = strings.TrimSpace(row.Food)
	return row, nil
}

// Decoded is the result of reading a whole log.
type Decoded struct {
	Schema  Schema
	Rows    []models.CookRow // file order
	Skipped []*kitchenlog.ParseError
}

// Decode reads a whole log. The first line is the header; blank lines are
// ignored and malformed lines are reported in Skipped.
func Decode(data []byte) Decoded {
	data = bytes.TrimPrefix(data, []byte(BOM))
	text := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))

	out := Decoded{Schema: Full}
	if text == "" {
		return out
	}
	lines := strings.Split(text, "\n")
	out.Schema = detectSchema(lines[0])

	for i, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		row, err := DecodeLine(line, out.Schema)
		if err != nil {
			out.Skipped = append(out.Skipped, &kitchenlog.ParseError{
				Line:   i + 2,
				Text:   line,
				Reason: err.Error(),
			})
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
