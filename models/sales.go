package models

import "time"

// RawSalesRecord holds one dataset row exactly as read from the CSV file.
// Nothing is parsed yet; "N/A" and empty cells are still present.
type RawSalesRecord struct {
	Rank        string
	Name        string
	Platform    string
	Year        string
	Genre       string
	Publisher   string
	NASales     string
	EUSales     string
	JPSales     string
	OtherSales  string
	GlobalSales string
	Line        int
}

// SalesRecord is a cleaned dataset row. Sales figures are in millions of units.
type SalesRecord struct {
	ID          int64     `db:"id" json:"-"`
	Rank        int       `db:"rank" json:"rank"`
	Name        string    `db:"name" json:"name"`
	Platform    string    `db:"platform" json:"platform"`
	Year        int       `db:"year" json:"year"`
	Genre       string    `db:"genre" json:"genre"`
	Publisher   string    `db:"publisher" json:"publisher"`
	NASales     float64   `db:"na_sales" json:"na_sales"`
	EUSales     float64   `db:"eu_sales" json:"eu_sales"`
	JPSales     float64   `db:"jp_sales" json:"jp_sales"`
	OtherSales  float64   `db:"other_sales" json:"other_sales"`
	GlobalSales float64   `db:"global_sales" json:"global_sales"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
}

// Vocabulary lists the selectable values observed in the dataset.
type Vocabulary struct {
	Years     []int    `json:"years"`
	Platforms []string `json:"platforms"`
	Genres    []string `json:"genres"`
}

// InsightReport holds the computed analytics over the cleaned dataset.
type InsightReport struct {
	TotalRecords       int                `json:"total_records"`
	TotalGlobalSales   float64            `json:"total_global_sales"`
	AverageGlobalSales float64            `json:"average_global_sales"`
	FirstYear          int                `json:"first_year"`
	LastYear           int                `json:"last_year"`
	TopGenre           string             `json:"top_genre"`
	TopPlatform        string             `json:"top_platform"`
	SalesByGenre       map[string]float64 `json:"sales_by_genre"`
	SalesByPlatform    map[string]float64 `json:"sales_by_platform"`
	SalesByYear        map[int]float64    `json:"sales_by_year"`
	TopTitles          []*SalesRecord     `json:"top_titles"`
}
