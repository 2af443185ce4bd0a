package chart

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"vgsales-forecaster/utils"
)

const renderTimeout = 30 * time.Second

// Renderer turns SVG charts into PNG files using a headless browser.
type Renderer struct {
	chromeBin string
	logger    *utils.Logger
}

// New creates a Renderer. An empty chromeBin triggers a search of the
// usual install locations.
func New(chromeBin string, logger *utils.Logger) *Renderer {
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	return &Renderer{chromeBin: chromeBin, logger: logger}
}

// RenderPNG screenshots the svg element and writes it to outPath.
func (r *Renderer) RenderPNG(ctx context.Context, svg, outPath string) error {
	if r.chromeBin != "" {
		r.logger.Debug("[chart] Using browser binary: %s", r.chromeBin)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
	)
	if r.chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(r.chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, renderTimeout)
	defer cancelTimeout()

	var png []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(dataURL(svg)),
		chromedp.WaitVisible("svg", chromedp.ByQuery),
		chromedp.Screenshot("svg", &png, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	if err := os.WriteFile(outPath, png, 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}

	r.logger.Info("[chart] Wrote %d bytes to %s", len(png), outPath)
	return nil
}

func dataURL(svg string) string {
	page := `<!DOCTYPE html><html><body style="margin:0;background:#fff">` + svg + `</body></html>`
	return "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(page))
}

// findChromeBinary locates a Chrome or Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
