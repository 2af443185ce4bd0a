package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"vgsales-forecaster/models"
	"vgsales-forecaster/utils"
)

const topTitles = 5

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

func (s *InsightService) Generate(records []*models.SalesRecord) *models.InsightReport {
	report := &models.InsightReport{
		SalesByGenre:    make(map[string]float64),
		SalesByPlatform: make(map[string]float64),
		SalesByYear:     make(map[int]float64),
	}

	if len(records) == 0 {
		return report
	}

	report.TotalRecords = len(records)
	report.FirstYear = records[0].Year
	report.LastYear = records[0].Year

	var total float64
	for _, r := range records {
		total += r.GlobalSales
		report.SalesByGenre[r.Genre] += r.GlobalSales
		report.SalesByPlatform[r.Platform] += r.GlobalSales
		report.SalesByYear[r.Year] += r.GlobalSales
		if r.Year < report.FirstYear {
			report.FirstYear = r.Year
		}
		if r.Year > report.LastYear {
			report.LastYear = r.Year
		}
	}

	for k, v := range report.SalesByGenre {
		report.SalesByGenre[k] = Round2(v)
	}
	for k, v := range report.SalesByPlatform {
		report.SalesByPlatform[k] = Round2(v)
	}
	for k, v := range report.SalesByYear {
		report.SalesByYear[k] = Round2(v)
	}

	report.TotalGlobalSales = Round2(total)
	report.AverageGlobalSales = Round2(total / float64(len(records)))
	report.TopGenre = topKey(report.SalesByGenre)
	report.TopPlatform = topKey(report.SalesByPlatform)

	// Top titles by global sales, ties broken by name so output is stable
	sorted := make([]*models.SalesRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].GlobalSales != sorted[j].GlobalSales {
			return sorted[i].GlobalSales > sorted[j].GlobalSales
		}
		return sorted[i].Name < sorted[j].Name
	})
	if len(sorted) > topTitles {
		sorted = sorted[:topTitles]
	}
	report.TopTitles = sorted

	s.logger.Debug("[insights] %d records, %.2fM units, top genre %s",
		report.TotalRecords, report.TotalGlobalSales, report.TopGenre)
	return report
}

func (s *InsightService) Print(r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🎮 VIDEO GAME SALES INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Titles            : \033[1m%d\033[0m\n", r.TotalRecords)
	if r.TotalRecords == 0 {
		fmt.Printf("  No sales data available\n")
		fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
		return
	}
	fmt.Printf("  Years covered     : \033[1m%d – %d\033[0m\n", r.FirstYear, r.LastYear)
	fmt.Printf("  Global sales      : \033[1;32m%.2fM\033[0m\n", r.TotalGlobalSales)
	fmt.Printf("  Average per title : \033[1;32m%.2fM\033[0m\n", r.AverageGlobalSales)
	fmt.Println()

	fmt.Printf("\033[1;33m  Top %d Titles\033[0m\n", topTitles)
	fmt.Printf("  %s\n", thin)
	for i, t := range r.TopTitles {
		fmt.Printf("  \033[1m%d.\033[0m %-34s %-5s \033[1;32m%6.2fM\033[0m\n",
			i+1, truncate(t.Name, 32), t.Platform, t.GlobalSales)
	}
	fmt.Println()

	printBars("Sales by Genre", r.SalesByGenre, thin)
	printBars("Sales by Platform (top 10)", topN(r.SalesByPlatform, 10), thin)

	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)
}

func printBars(title string, values map[string]float64, thin string) {
	fmt.Printf("\033[1;33m  %s\033[0m\n", title)
	fmt.Printf("  %s\n", thin)

	keys := SortedKeysByValue(values)
	if len(keys) == 0 {
		fmt.Printf("  No data\n\n")
		return
	}
	top := values[keys[0]]
	for _, k := range keys {
		width := 0
		if top > 0 {
			width = int(math.Round(values[k] / top * 24))
		}
		fmt.Printf("  %-14s %s %.2fM\n", truncate(k, 14), strings.Repeat("█", width), values[k])
	}
	fmt.Println()
}

// SortedKeysByValue returns map keys ordered by descending value, then name.
func SortedKeysByValue(values map[string]float64) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if values[keys[i]] != values[keys[j]] {
			return values[keys[i]] > values[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

func topKey(values map[string]float64) string {
	keys := SortedKeysByValue(values)
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

func topN(values map[string]float64, n int) map[string]float64 {
	keys := SortedKeysByValue(values)
	if len(keys) > n {
		keys = keys[:n]
	}
	out := make(map[string]float64, len(keys))
	for _, k := range keys {
		out[k] = values[k]
	}
	return out
}

// Round2 rounds to two decimals, the precision sales are reported with.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
