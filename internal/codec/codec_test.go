package codec

import (
	"strings"
	"testing"
	"time"

	"kitchenlog/internal/models"
)

func sampleRow() models.CookRow {
	return models.CookRow{
		Food:      "Chicken Wings",
		StartDate: "2024-06-03",
		StartTime: "11:02:00",
		EndDate:   "2024-06-03",
		EndTime:   "11:04:05",
		Duration:  "2.1",
		Temp:      "78.5",
		Staff:     "Alice",
		Trays:     "3",
	}
}

func TestEncodeLine_FullSchema(t *testing.T) {
	got := EncodeLine(sampleRow(), Full)
	want := `"Chicken Wings",2024-06-03,11:02:00,2024-06-03,11:04:05,2.1,78.5,Alice,3`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEncodeLine_LegacySchemaDropsEndDate(t *testing.T) {
	got := EncodeLine(sampleRow(), Legacy)
	want := `"Chicken Wings",2024-06-03,11:02:00,11:04:05,2.1,78.5,Alice,3`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRoundTrip_QuotedFood(t *testing.T) {
	cases := []string{
		`Fish & "Chips"`,
		`"Quoted"`,
		`Fish, Chips`,
		`Plain`,
	}
	for _, food := range cases {
		t.Run(food, func(t *testing.T) {
			row := sampleRow()
			row.Food = food
			got, err := DecodeLine(EncodeLine(row, Full), Full)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != row {
				t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, row)
			}
		})
	}
}

func TestDecodeLine_TooFewFields(t *testing.T) {
	if _, err := DecodeLine(`"Fries",2024-06-03,11:02:00`, Full); err == nil {
		t.Fatalf("expected error for short line")
	}
}

func TestDecode_SkipsHeaderBlankAndShortLines(t *testing.T) {
	text := Full.HeaderLine() + "\n" +
		EncodeLine(sampleRow(), Full) + "\n" +
		"\n" +
		`"Broken",2024-06-03` + "\n" +
		`"Nuggets",2024-06-04,09:00:00,2024-06-04,09:05:00,5.0,80,Bob,2` + "\n"

	dec := Decode([]byte(text))
	if dec.Schema.Name != Full.Name {
		t.Fatalf("schema: want full, got %s", dec.Schema.Name)
	}
	if len(dec.Rows) != 2 {
		t.Fatalf("want 2 rows, got %d", len(dec.Rows))
	}
	if dec.Rows[1].Food != "Nuggets" || dec.Rows[1].Staff != "Bob" {
		t.Fatalf("unexpected second row: %+v", dec.Rows[1])
	}
	if len(dec.Skipped) != 1 || dec.Skipped[0].Line != 4 {
		t.Fatalf("expected line 4 skipped, got %+v", dec.Skipped)
	}
}

func TestDecode_DetectsLegacyHeader(t *testing.T) {
	text := Legacy.HeaderLine() + "\r\n" + `"Fries",2024-06-03,11:02:00,11:06:00,4.0,90,Charlie,1` + "\r\n"
	dec := Decode([]byte(text))
	if dec.Schema.Name != Legacy.Name {
		t.Fatalf("schema: want legacy, got %s", dec.Schema.Name)
	}
	if len(dec.Rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(dec.Rows))
	}
	r := dec.Rows[0]
	if r.EndDate != "" || r.EndTime != "11:06:00" || r.Trays != "1" {
		t.Fatalf("unexpected legacy row: %+v", r)
	}
}

func TestDecode_StripsBOMAndHandlesEmpty(t *testing.T) {
	if dec := Decode(nil); len(dec.Rows) != 0 || dec.Schema.Name != Full.Name {
		t.Fatalf("empty input: %+v", dec)
	}
	dec := Decode([]byte(BOM + Full.HeaderLine() + "\n" + EncodeLine(sampleRow(), Full)))
	if len(dec.Rows) != 1 {
		t.Fatalf("want 1 row, got %d", len(dec.Rows))
	}
}

func TestSplitInstant_UsesUTC(t *testing.T) {
	ts := time.Date(2024, 6, 30, 23, 30, 15, 900_000_000, time.FixedZone("X", -2*3600))
	d, c := models.SplitInstant(ts)
	if d != "2024-07-01" || c != "01:30:15" {
		t.Fatalf("got %s %s", d, c)
	}
}

func TestSchemaByName(t *testing.T) {
	for name, want := range map[string]string{"": "full", "FULL": "full", "legacy": "legacy"} {
		s, err := SchemaByName(name)
		if err != nil || s.Name != want {
			t.Fatalf("SchemaByName(%q) = %v, %v", name, s.Name, err)
		}
	}
	if _, err := SchemaByName("wide"); err == nil || !strings.Contains(err.Error(), "wide") {
		t.Fatalf("expected unknown schema error, got %v", err)
	}
}
