package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"

	"github.com/sadopc/carelog/internal/analysis"
)

var (
	okColor    = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow, color.Bold)
	alertColor = color.New(color.FgRed, color.Bold)
	dimColor   = color.New(color.FgHiBlack)
)

func okLabel() string    { return okColor.Sprint("[ok]") }
func warnLabel() string  { return warnColor.Sprint("[warn]") }
func alertLabel() string { return alertColor.Sprint("[alert]") }
func errLabel() string   { return alertColor.Sprint("error:") }

// renderTable prints rows with the shared table style.
func renderTable(w io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// windowLabel names a day window for output headings.
func windowLabel(days int) string {
	if days <= 0 {
		return "all time"
	}
	return fmt.Sprintf("last %d days", days)
}

// parseWindow reads a --window value: "7", "30", any day count, or "all".
func parseWindow(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return 0, nil
	}
	days := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("--window must be a day count or \"all\" (got %q)", s)
		}
		days = days*10 + int(s[i]-'0')
	}
	if days == 0 {
		return 0, fmt.Errorf("--window must be a day count or \"all\" (got %q)", s)
	}
	return days, nil
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline maps values onto block glyphs over a fixed 1..10 scale.
func sparkline(values []float64) string {
	const vmin, vmax = 1.0, 10.0
	var b strings.Builder
	for _, v := range values {
		if v < vmin {
			v = vmin
		}
		if v > vmax {
			v = vmax
		}
		idx := int((v - vmin) / (vmax - vmin) * float64(len(sparkRunes)-1))
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// moodChart plots a daily series as a terminal line chart.
func moodChart(series analysis.DailySeries, caption string) string {
	if len(series) < 2 {
		return ""
	}
	return asciigraph.Plot(series.Values(),
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(caption),
	)
}

func fmtDay(t time.Time) string {
	return t.Format("2006-01-02")
}

// printCorr renders one correlation line in deliberately non-causal
// language.
func printCorr(w io.Writer, name string, c analysis.CorrResult) {
	switch c.Status {
	case analysis.CorrTooFewPoints:
		fmt.Fprintf(w, "- %s: not enough overlapping days yet (%d)\n", name, c.N)
	case analysis.CorrNoVariance:
		fmt.Fprintf(w, "- %s: unavailable (data lacks variation)\n", name)
	default:
		strength := "weak"
		switch {
		case c.R >= 0.6 || c.R <= -0.6:
			strength = "strong"
		case c.R >= 0.35 || c.R <= -0.35:
			strength = "moderate"
		}
		direction := "positive"
		if c.R < 0 {
			direction = "negative"
		}
		fmt.Fprintf(w, "- %s: r=%+.2f over %d shared days (%s %s correlation)\n", name, c.R, c.N, strength, direction)
	}
}

// printAlerts renders the structured alert report as text.
func printAlerts(w io.Writer, rep analysis.AlertReport, cfg analysis.AlertConfig) {
	fmt.Fprintln(w, "[Alerts]")
	if rep.Insufficient {
		fmt.Fprintln(w, "- not enough mood data yet for alerts (need a few days of entries)")
		return
	}

	if rep.Baseline == nil {
		fmt.Fprintln(w, "- baseline unavailable (not enough prior days)")
	} else if rep.Dip != nil {
		status := "RECENT"
		if rep.Dip.Ongoing {
			status = "ONGOING"
		}
		fmt.Fprintf(w, "%s 3-day dip vs baseline (%s)\n", warnLabel(), status)
		fmt.Fprintf(w, "- baseline (approx): %.2f/10\n", *rep.Baseline)
		fmt.Fprintf(w, "- latest 3-day avg:  %.2f/10 on %s\n", rep.Dip.Avg3, fmtDay(rep.Dip.Day))
		fmt.Fprintf(w, "- drop: %.2f (threshold %.2f)\n", rep.Dip.Drop, cfg.DipThreshold)
	} else {
		fmt.Fprintf(w, "%s no 3-day dips below baseline (%.2f/10, threshold %.2f)\n", okLabel(), *rep.Baseline, cfg.DipThreshold)
	}

	if len(rep.Crashes) == 0 {
		fmt.Fprintf(w, "%s no crash patterns detected (by current thresholds)\n", okLabel())
		return
	}
	fmt.Fprintf(w, "%s crash patterns detected\n", alertLabel())
	for _, hit := range rep.Crashes {
		fmt.Fprintln(w, "- "+describeCrash(hit))
	}
}

func describeCrash(hit analysis.CrashHit) string {
	switch hit.Kind {
	case analysis.CrashDayDrop:
		return fmt.Sprintf("day-to-day drop: %s (%.1f) to %s (%.1f) [drop %.1f]",
			fmtDay(hit.Days[0]), hit.Values[0], fmtDay(hit.Days[1]), hit.Values[1], hit.Drop)
	case analysis.CrashAvgDrop:
		return fmt.Sprintf("3-day avg drop: %s (avg %.2f) to %s (avg %.2f) [drop %.2f]",
			fmtDay(hit.Days[0]), hit.Values[0], fmtDay(hit.Days[1]), hit.Values[1], hit.Drop)
	default:
		return fmt.Sprintf("low streak after high day: %s (%.1f) then %s (%.1f), %s (%.1f)",
			fmtDay(hit.Days[0]), hit.Values[0], fmtDay(hit.Days[1]), hit.Values[1], fmtDay(hit.Days[2]), hit.Values[2])
	}
}
