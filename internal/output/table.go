// Package output renders analysis results for the terminal.
//
// Renderers return strings so commands can write them to whatever
// io.Writer cobra hands them. Color is applied only when stdout is a TTY
// and NO_COLOR is unset.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/blackwell-systems/retailmetrics/internal/analyzer"
	"github.com/blackwell-systems/retailmetrics/internal/store"
	"github.com/blackwell-systems/retailmetrics/internal/transactions"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

const dayLayout = "2006-01-02"

// IsColorEnabled returns true if ANSI color codes should be emitted.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// colorize wraps text in the given ANSI color code if color is enabled.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// rule returns a horizontal separator of width n.
func rule(n int) string {
	return strings.Repeat("─", n) + "\n"
}

// RenderAffinity renders the retailer with the strongest affinity for brand.
// When shares is non-empty, the per-retailer breakdown follows, in the
// order given; the first share is highlighted.
func RenderAffinity(brand, retailer string, shares []analyzer.RetailerShare) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Retailer with the strongest affinity for %s: %s\n",
		brand, colorize(colorGreen, retailer)))

	if len(shares) == 0 {
		return sb.String()
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-24s %12s %12s %8s\n", "Retailer", "Brand Units", "Total Units", "Share"))
	sb.WriteString(rule(59))
	for i, s := range shares {
		line := fmt.Sprintf("%-24s %12s %12s %7.2f%%",
			truncate(s.Retailer, 24),
			humanize.Comma(s.BrandUnits),
			humanize.Comma(s.TotalUnits),
			s.Percentage)
		if i == 0 {
			line = colorize(colorBold, line)
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// RenderHouseholdCount renders a household count and the filters that produced it.
func RenderHouseholdCount(filter analyzer.HouseholdFilter, count int) string {
	var parts []string
	if filter.Brand != "" {
		parts = append(parts, "brand="+filter.Brand)
	}
	if filter.Retailer != "" {
		parts = append(parts, "retailer="+filter.Retailer)
	}
	if !filter.Start.IsZero() {
		parts = append(parts, "from "+filter.Start.Format(dayLayout))
	}
	if !filter.End.IsZero() {
		parts = append(parts, "to "+filter.End.Format(dayLayout))
	}

	scope := "all transactions"
	if len(parts) > 0 {
		scope = strings.Join(parts, ", ")
	}

	noun := "households"
	if count == 1 {
		noun = "household"
	}
	return fmt.Sprintf("%s %s (%s)\n", humanize.Comma(int64(count)), noun, colorize(colorGray, scope))
}

// RenderTopBrand renders the top buying brand. When spends is non-empty the
// largest limit household totals are listed beneath it (limit <= 0 lists all).
func RenderTopBrand(brand string, spends []analyzer.HouseholdSpend, limit int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Top buying brand: %s\n", colorize(colorGreen, brand)))

	if len(spends) == 0 {
		return sb.String()
	}
	if limit > 0 && len(spends) > limit {
		spends = spends[:limit]
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-24s %-16s %14s\n", "Brand", "Household", "Spend"))
	sb.WriteString(rule(56))
	for _, s := range spends {
		sb.WriteString(fmt.Sprintf("%-24s %-16s %14s\n",
			truncate(s.Brand, 24),
			truncate(s.HouseholdID, 16),
			s.Total.String()))
	}
	return sb.String()
}

// RenderBrandRates renders the top brand by average spend per household and
// the rate table beneath it (limit <= 0 lists all).
func RenderBrandRates(rates []analyzer.BrandRate, limit int) string {
	if len(rates) == 0 {
		return "No brands found.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Top buying brand (average per household): %s\n",
		colorize(colorGreen, rates[0].Brand)))

	if limit > 0 && len(rates) > limit {
		rates = rates[:limit]
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%-24s %14s %11s %12s\n", "Brand", "Total", "Households", "Per HH"))
	sb.WriteString(rule(64))
	for _, r := range rates {
		sb.WriteString(fmt.Sprintf("%-24s %14s %11s %12s\n",
			truncate(r.Brand, 24),
			r.Total.String(),
			humanize.Comma(int64(r.Households)),
			"$"+humanize.CommafWithDigits(r.PerHH, 2)))
	}
	return sb.String()
}

// RenderDatasetSummary renders the shape of a loaded dataset.
func RenderDatasetSummary(source string, ds *transactions.Dataset) string {
	first, last := ds.DateRange()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:       %s\n", source))
	sb.WriteString(fmt.Sprintf("Transactions: %s\n", humanize.Comma(int64(ds.Len()))))
	sb.WriteString(fmt.Sprintf("Retailers:    %s\n", humanize.Comma(int64(len(ds.Retailers())))))
	sb.WriteString(fmt.Sprintf("Brands:       %s\n", humanize.Comma(int64(len(ds.Brands())))))
	sb.WriteString(fmt.Sprintf("Households:   %s\n", humanize.Comma(int64(len(ds.Households())))))
	sb.WriteString(fmt.Sprintf("Dates:        %s to %s\n", first.Format(dayLayout), last.Format(dayLayout)))
	return sb.String()
}

// RenderDatasetList renders the cached snapshots.
func RenderDatasetList(infos []*store.DatasetInfo) string {
	if len(infos) == 0 {
		return "No cached datasets.\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-44s %10s %-16s %s\n", "Source", "Records", "Loaded", "ID"))
	sb.WriteString(rule(110))
	for _, info := range infos {
		sb.WriteString(fmt.Sprintf("%-44s %10s %-16s %s\n",
			truncateLeft(info.Source, 44),
			humanize.Comma(int64(info.RecordCount)),
			formatRelativeTime(info.LoadedAt),
			colorize(colorGray, info.ID)))
	}
	return sb.String()
}

// RenderList renders a titled list of values, one per line.
func RenderList(title string, values []string) string {
	if len(values) == 0 {
		return fmt.Sprintf("No %s found.\n", strings.ToLower(title))
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%d)\n", title, len(values)))
	sb.WriteString(rule(len(title) + 8))
	for _, v := range values {
		sb.WriteString(v + "\n")
	}
	return sb.String()
}

// truncateLeft keeps the end of s, where file names live, prefixing "...".
func truncateLeft(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[len(s)-maxLen:]
	}
	return "..." + s[len(s)-(maxLen-3):]
}

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

// truncate truncates a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
