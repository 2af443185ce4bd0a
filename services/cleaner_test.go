package services

import (
	"testing"

	"vgsales-forecaster/models"
	"vgsales-forecaster/utils"
)

func newTestLogger() *utils.Logger { return utils.NewLogger() }

func TestCleanerParseYear(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{"2006", 2006, true},
		{" 1985 ", 1985, true},
		{"2009.0", 2009, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"2009.5", 0, false},
		{"soon", 0, false},
		{"0", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseYear(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseYear(%q) = %d, %v; want %d, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCleanerParseSales(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"82.74", 82.74, true},
		{"0", 0, true},
		{"nan", 0, false},
		{"-1", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parseSales(tt.raw)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseSales(%q) = %.2f, %v; want %.2f, %v", tt.raw, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCleanerDropsIncompleteRows(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawSalesRecord{
		{Name: "Wii Sports", Platform: "Wii", Year: "2006", Genre: "Sports", GlobalSales: "82.74", NASales: "41.49"},
		{Name: "No Year", Platform: "PS2", Year: "N/A", Genre: "Action", GlobalSales: "1.0"},
		{Name: "No Genre", Platform: "PS2", Year: "2004", Genre: "  ", GlobalSales: "1.0"},
		{Name: "No Platform", Platform: "", Year: "2004", Genre: "Action", GlobalSales: "1.0"},
		{Name: "No Sales", Platform: "DS", Year: "2004", Genre: "Action", GlobalSales: ""},
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 record after cleaning, got %d", len(cleaned))
	}
	got := cleaned[0]
	if got.Year != 2006 || got.GlobalSales != 82.74 || got.NASales != 41.49 {
		t.Errorf("unexpected parsed record: %+v", got)
	}
}

func TestCleanerNormalisesText(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawSalesRecord{
		{Rank: "7", Name: "  New   Super Mario\tBros. ", Platform: " DS ", Year: "2006", Genre: "Platform", GlobalSales: "30.01", EUSales: "N/A"},
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 record, got %d", len(cleaned))
	}
	r := cleaned[0]
	if r.Name != "New Super Mario Bros." {
		t.Errorf("Name: got %q", r.Name)
	}
	if r.Platform != "DS" {
		t.Errorf("Platform: got %q", r.Platform)
	}
	if r.Genre != "Platform" {
		t.Errorf("Genre: got %q", r.Genre)
	}
	if r.Rank != 7 {
		t.Errorf("Rank: got %d, want 7", r.Rank)
	}
	if r.EUSales != 0 {
		t.Errorf("missing regional sales should be 0, got %v", r.EUSales)
	}
}

func TestCleanerKeepsInnerWhitespaceOfCategories(t *testing.T) {
	c := NewCleaner(newTestLogger())
	raw := []*models.RawSalesRecord{
		{Name: "Odd", Platform: "\tPS  4 ", Year: "2015", Genre: " Role  Playing\n", GlobalSales: "1.5"},
	}

	cleaned := c.Clean(raw)
	if len(cleaned) != 1 {
		t.Fatalf("expected 1 record, got %d", len(cleaned))
	}
	if cleaned[0].Platform != "PS  4" {
		t.Errorf("Platform: got %q, want %q", cleaned[0].Platform, "PS  4")
	}
	if cleaned[0].Genre != "Role  Playing" {
		t.Errorf("Genre: got %q, want %q", cleaned[0].Genre, "Role  Playing")
	}
}
