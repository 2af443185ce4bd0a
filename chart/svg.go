package chart

import (
	"fmt"
	"html"
	"math"
	"sort"
	"strings"

	"vgsales-forecaster/models"
)

const (
	width        = 720
	height       = 360
	marginLeft   = 64
	marginRight  = 24
	marginTop    = 48
	marginBottom = 48
	yTicks       = 5

	lineColor = "#636efa"
	barColor  = "#00cc96"
	gridColor = "#e5ecf6"
)

// LineChart draws a forecast as a line with a marker per year.
func LineChart(title string, series models.ForecastSeries) string {
	var b strings.Builder
	open(&b, width, height, title)

	if len(series) == 0 {
		empty(&b)
		return closeSVG(&b)
	}

	lo, hi := valueRange(series)
	plotW := float64(width - marginLeft - marginRight)
	plotH := float64(height - marginTop - marginBottom)

	x := func(i int) float64 {
		if len(series) == 1 {
			return marginLeft + plotW/2
		}
		return marginLeft + plotW*float64(i)/float64(len(series)-1)
	}
	y := func(v float64) float64 {
		return marginTop + plotH - plotH*(v-lo)/(hi-lo)
	}

	for i := 0; i <= yTicks; i++ {
		v := lo + (hi-lo)*float64(i)/yTicks
		fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s"/>`,
			marginLeft, y(v), width-marginRight, y(v), gridColor)
		fmt.Fprintf(&b, `<text x="%d" y="%.1f" text-anchor="end" font-size="11">%.2f</text>`,
			marginLeft-6, y(v)+4, v)
	}

	points := make([]string, len(series))
	for i, p := range series {
		points[i] = fmt.Sprintf("%.1f,%.1f", x(i), y(p.Value))
	}
	fmt.Fprintf(&b, `<polyline class="series" fill="none" stroke="%s" stroke-width="2" points="%s"/>`,
		lineColor, strings.Join(points, " "))

	for i, p := range series {
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="4" fill="%s"><title>%d: %.2f</title></circle>`,
			x(i), y(p.Value), lineColor, p.Year, p.Value)
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" text-anchor="middle" font-size="11">%d</text>`,
			x(i), height-marginBottom+18, p.Year)
	}

	return closeSVG(&b)
}

// BarChart draws one horizontal bar per key, largest first.
func BarChart(title string, values map[string]float64) string {
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

	const barH, gap = 20, 6
	h := marginTop + marginBottom + len(keys)*(barH+gap)
	if h < height/2 {
		h = height / 2
	}

	var b strings.Builder
	open(&b, width, h, title)
	if len(keys) == 0 {
		empty(&b)
		return closeSVG(&b)
	}

	const labelW = 110
	top := values[keys[0]]
	plotW := float64(width - marginLeft - marginRight - labelW)
	for i, k := range keys {
		w := 0.0
		if top > 0 {
			w = plotW * math.Max(values[k], 0) / top
		}
		yPos := marginTop + i*(barH+gap)
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="end" font-size="12">%s</text>`,
			marginLeft+labelW-8, yPos+barH-5, html.EscapeString(k))
		fmt.Fprintf(&b, `<rect class="bar" x="%d" y="%d" width="%.1f" height="%d" fill="%s"/>`,
			marginLeft+labelW, yPos, w, barH, barColor)
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="11">%.2f</text>`,
			float64(marginLeft+labelW)+w+4, yPos+barH-5, values[k])
	}
	return closeSVG(&b)
}

func open(b *strings.Builder, w, h int, title string) {
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		w, h, w, h)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)
	fmt.Fprintf(b, `<text x="%d" y="28" font-size="16" font-weight="bold">%s</text>`,
		marginLeft, html.EscapeString(title))
}

func empty(b *strings.Builder) {
	fmt.Fprintf(b, `<text x="%d" y="%d" font-size="13" fill="#888">no data</text>`, marginLeft, marginTop+24)
}

func closeSVG(b *strings.Builder) string {
	b.WriteString("</svg>")
	return b.String()
}

// valueRange pads flat series so the y scale never divides by zero.
func valueRange(series models.ForecastSeries) (float64, float64) {
	lo, hi := series[0].Value, series[0].Value
	for _, p := range series[1:] {
		lo = math.Min(lo, p.Value)
		hi = math.Max(hi, p.Value)
	}
	if lo > 0 {
		lo = 0
	}
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}
