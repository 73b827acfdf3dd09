// Package report writes plain-text analysis summaries to disk.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"newssense/internal/types"
)

// Writer persists one timestamped summary file per analysis run.
type Writer struct {
	dir string
	now func() time.Time
}

// NewWriter creates a writer rooted at dir. The directory is created on
// first save.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir, now: time.Now}
}

// Save writes the summary for one analysis and returns the file path.
func (w *Writer) Save(ticker string, sec *types.SecurityData, explanation string) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	now := w.now()
	filename := fmt.Sprintf("analysis_%s_%s.txt", ticker, now.Format("20060102_150405"))
	path := filepath.Join(w.dir, filename)

	var b strings.Builder
	fmt.Fprintf(&b, "=== Market Analysis for %s ===\n", ticker)
	fmt.Fprintf(&b, "Analysis Date: %s\n\n", now.Format("2006-01-02 15:04:05"))

	writeCompany(&b, ticker, sec)
	writePrice(&b, sec)
	writeVolume(&b, sec)

	b.WriteString("Key Factors Affecting Price:\n\n")
	writeMarketContext(&b, sec)

	if explanation != "" {
		b.WriteString(explanation)
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func writeCompany(b *strings.Builder, ticker string, sec *types.SecurityData) {
	if sec == nil || sec.Info == nil {
		return
	}
	info := sec.Info

	name := info.Name
	if name == "" {
		name = ticker
	}
	b.WriteString("Company Information:\n")
	fmt.Fprintf(b, "Name: %s\n", name)
	fmt.Fprintf(b, "Sector: %s\n", orUnknown(info.Sector))
	fmt.Fprintf(b, "Industry: %s\n", orUnknown(info.Industry))
	fmt.Fprintf(b, "Website: %s\n\n", orUnknown(info.Website))
}

func writePrice(b *strings.Builder, sec *types.SecurityData) {
	today := sec.Series(types.TimeframeToday)
	if len(today) == 0 {
		return
	}

	openPrice := today[0].Open
	lastClose := today[len(today)-1].Close
	dayHigh, dayLow := today[0].High, today[0].Low
	for _, c := range today {
		if c.High > dayHigh {
			dayHigh = c.High
		}
		if c.Low < dayLow {
			dayLow = c.Low
		}
	}

	change := lastClose - openPrice
	b.WriteString("Price Information:\n")
	fmt.Fprintf(b, "Current Price: $%.2f\n", lastClose)
	fmt.Fprintf(b, "Change: %.2f\n", change)
	if openPrice != 0 {
		fmt.Fprintf(b, "Change %%: %.2f%%\n", change/openPrice*100)
	}
	fmt.Fprintf(b, "Day Range: $%.2f - $%.2f\n\n", dayLow, dayHigh)
}

func writeVolume(b *strings.Builder, sec *types.SecurityData) {
	today := sec.Series(types.TimeframeToday)
	if len(today) == 0 {
		return
	}

	total := 0.0
	for _, c := range today {
		total += c.Volume
	}
	mean := total / float64(len(today))

	b.WriteString("Volume Information:\n")
	fmt.Fprintf(b, "Current Volume: %.0f\n", total)
	fmt.Fprintf(b, "Average Volume: %.0f\n", mean)
	if mean != 0 {
		fmt.Fprintf(b, "Volume Change: %.2f%%\n", (total-mean)/mean*100)
	}
	b.WriteString("\n")
}

func writeMarketContext(b *strings.Builder, sec *types.SecurityData) {
	if sec == nil || len(sec.MarketContext) == 0 {
		return
	}

	names := make([]string, 0, len(sec.MarketContext))
	for name := range sec.MarketContext {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("Market Context:\n")
	for _, name := range names {
		fmt.Fprintf(b, "- %s: %.2f%%\n", name, sec.MarketContext[name].ChangePct)
	}
	b.WriteString("\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
