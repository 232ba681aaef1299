package codec

import (
	"fmt"
	"strings"

	"kitchenlog/internal/models"
)

// Schema is one column layout of the durable log.
type Schema struct {
	Name   string
	Header []string
}

// Full is the current nine-column layout.
var Full = Schema{
	Name: "full",
	Header: []string{
		"Food Item", "Start Date", "Start Time", "End Date", "End Time",
		"Duration (min)", "Core Temp (°C)", "Staff", "Trays",
	},
}

// Legacy is the older eight-column layout without an End Date column.
var Legacy = Schema{
	Name: "legacy",
	Header: []string{
		"Food Item", "Start Date", "Start Time", "End Time",
		"Duration (min)", "Core Temp (°C)", "Staff", "Trays",
	},
}

// SchemaByName resolves a configured schema name; empty means Full.
func SchemaByName(name string) (Schema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Full.Name:
		return Full, nil
	case Legacy.Name:
		return Legacy, nil
	default:
		return Schema{}, fmt.Errorf("unknown log schema %q", name)
	}
}

// HeaderLine is the header row as written at the top of a new log file.
func (s Schema) HeaderLine() string {
	return strings.Join(s.Header, ",")
}

// Columns is the number of fields a data line must carry.
func (s Schema) Columns() int { return len(s.Header) }

// Values returns the row's fields in this schema's column order.
func (s Schema) Values(r models.CookRow) []string {
	if s.Name == Legacy.Name {
		return []string{r.Food, r.StartDate, r.StartTime, r.EndTime, r.Duration, r.Temp, r.Staff, r.Trays}
	}
	return r.Fields()
}

// Row maps decoded fields back onto a CookRow. fields must hold at least
// Columns() entries.
func (s Schema) Row(fields []string) models.CookRow {
	if s.Name == Legacy.Name {
		return models.CookRow{
			Food: fields[0], StartDate: fields[1], StartTime: fields[2], EndTime: fields[3],
			Duration: fields[4], Temp: fields[5], Staff: fields[6], Trays: fields[7],
		}
	}
	return models.CookRow{
		Food: fields[0], StartDate: fields[1], StartTime: fields[2], EndDate: fields[3],
		EndTime: fields[4], Duration: fields[5], Temp: fields[6], Staff: fields[7], Trays: fields[8],
	}
}

// detectSchema picks the layout from a header line.
func detectSchema(header string) Schema {
	if strings.TrimSpace(header) == Legacy.HeaderLine() {
		return Legacy
	}
	return Full
}
