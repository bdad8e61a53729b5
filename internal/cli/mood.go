package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/carelog/internal/analysis"
	"github.com/sadopc/carelog/internal/export"
	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

var moodCmd = &cobra.Command{
	Use:   "mood",
	Short: "Log and analyze mood check-ins",
}

var moodAddCmd = &cobra.Command{
	Use:   "add SCORE",
	Short: "Log a mood score (1-10)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		score, err := strconv.Atoi(args[0])
		if err != nil || score < 1 || score > 10 {
			return fmt.Errorf("score must be an integer between 1 and 10 (got %q)", args[0])
		}

		when, _ := cmd.Flags().GetString("time")
		notes, _ := cmd.Flags().GetString("notes")
		tagsRaw, _ := cmd.Flags().GetString("tags")
		sleepTotal, _ := cmd.Flags().GetString("sleep-total")
		sleepRem, _ := cmd.Flags().GetString("sleep-rem")
		sleepDeep, _ := cmd.Flags().GetString("sleep-deep")

		ts, err := timeparse.Parse(clock, when)
		if err != nil {
			return err
		}
		entry := store.MoodEntry{
			TS:    timeparse.FormatEntry(ts),
			Score: store.IntPtr(score),
			Notes: strings.TrimSpace(notes),
			Tags:  store.ParseTags(tagsRaw),
		}
		if entry.SleepTotalMin, err = timeparse.ParseMinutes("--sleep-total", sleepTotal); err != nil {
			return err
		}
		if entry.SleepRemMin, err = timeparse.ParseMinutes("--sleep-rem", sleepRem); err != nil {
			return err
		}
		if entry.SleepDeepMin, err = timeparse.ParseMinutes("--sleep-deep", sleepDeep); err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		doc.Moods = append(doc.Moods, entry)
		if err := s.Save(doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s logged mood %d/10 @ %s\n", okLabel(), score, timeparse.FormatClock(ts))
		return nil
	},
}

var moodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent mood entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		moods := doc.Moods
		if len(moods) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no mood entries yet")
			return nil
		}
		if limit > 0 && len(moods) > limit {
			moods = moods[len(moods)-limit:]
		}

		var rows [][]string
		for i := len(moods) - 1; i >= 0; i-- {
			m := moods[i]
			when := m.TS
			if ts, ok := timeparse.FromEntry(m.TS); ok {
				when = ts.Format("2006-01-02 15:04")
			}
			score := "-"
			if m.Score != nil {
				score = strconv.Itoa(*m.Score)
			}
			rows = append(rows, []string{when, score, strings.Join(m.Tags, ", "), m.Notes})
		}
		return renderTable(cmd.OutOrStdout(), []string{"When", "Score", "Tags", "Notes"}, rows)
	},
}

var moodTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List today's mood entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		moods := analysis.MoodsToday(clock, doc.Moods)
		if len(moods) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no mood entries today")
			return nil
		}
		for _, m := range moods {
			ts, _ := timeparse.FromEntry(m.TS)
			score := "-"
			if m.Score != nil {
				score = fmt.Sprintf("%d/10", *m.Score)
			}
			line := fmt.Sprintf("- %s: %s", timeparse.FormatClock(ts), score)
			if len(m.Tags) > 0 {
				line += " [" + strings.Join(m.Tags, ", ") + "]"
			}
			if m.Notes != "" {
				line += " " + m.Notes
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

var moodStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Daily averages, trend, score distribution, top tags",
	RunE: func(cmd *cobra.Command, _ []string) error {
		window, _ := cmd.Flags().GetString("window")
		epsilon, _ := cmd.Flags().GetFloat64("trend-epsilon")
		days, err := parseWindow(window)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		st, ok := analysis.BuildMoodStats(clock, doc.Moods, days, epsilon)
		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintf(out, "no valid mood scores found for %s\n", windowLabel(days))
			return nil
		}

		fmt.Fprintf(out, "=== Mood stats (%s) ===\n", windowLabel(days))
		fmt.Fprintf(out, "- entries: %d\n", st.Entries)
		fmt.Fprintf(out, "- days with data: %d\n", len(st.Series))
		fmt.Fprintf(out, "- average (daily): %.2f/10\n", st.Avg)
		fmt.Fprintf(out, "- min/max (daily): %.2f/10 .. %.2f/10\n", st.Min, st.Max)
		fmt.Fprintf(out, "- best day: %s = %.2f/10\n", fmtDay(st.Best.Day), st.Best.Value)
		fmt.Fprintf(out, "- worst day: %s = %.2f/10\n", fmtDay(st.Worst.Day), st.Worst.Value)

		fmt.Fprintln(out, "\n[Trend]")
		fmt.Fprintf(out, "- direction: %s\n", st.Trend)
		fmt.Fprintf(out, "- slope: %+.3f mood points/day (epsilon=%.3f)\n", st.Slope, epsilon)
		fmt.Fprintf(out, "- net change: %+.2f (first day avg to last day avg)\n", st.Net)
		fmt.Fprintf(out, "- sparkline: %s\n", sparkline(st.Series.Values()))

		fmt.Fprintln(out, "\n[Daily averages]")
		for _, p := range st.Series {
			fmt.Fprintf(out, "- %s: %.2f/10 (%d entries)\n", fmtDay(p.Day), p.Value, p.Count)
		}

		fmt.Fprintln(out, "\n[Score distribution]")
		for i, c := range st.Distribution {
			bar := strings.Repeat("#", min(c, 30))
			fmt.Fprintf(out, "%2d: %3d %s\n", i+1, c, bar)
		}

		if len(st.TopTags) > 0 {
			fmt.Fprintln(out, "\n[Top tags]")
			for _, tc := range st.TopTags {
				fmt.Fprintf(out, "- %s: %d\n", tc.Tag, tc.Count)
			}
		}
		return nil
	},
}

var moodAnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Full mood report: trend, correlations, dip and crash alerts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		window, _ := cmd.Flags().GetString("window")
		epsilon, _ := cmd.Flags().GetFloat64("trend-epsilon")
		days, err := parseWindow(window)
		if err != nil {
			return err
		}
		cfg := alertConfigFromFlags(cmd)

		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		rep := analysis.BuildMoodReport(clock, doc, days, epsilon, cfg)
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "=== Mood analysis (%s) ===\n", windowLabel(days))
		if rep.Entries == 0 {
			fmt.Fprintln(out, "no mood entries in this range")
			return nil
		}
		fmt.Fprintf(out, "- entries: %d across %d days\n", rep.Entries, rep.DayCount)
		fmt.Fprintf(out, "- average: %.2f/10 (daily min %.2f, max %.2f)\n", rep.Avg, rep.Min, rep.Max)
		if rep.Trend == analysis.TrendIndeterminate {
			fmt.Fprintln(out, "- trend: not enough data")
		} else {
			fmt.Fprintf(out, "- trend: %s (%+.2f/day)\n", rep.Trend, rep.Slope)
		}

		fmt.Fprintln(out, "\n[Correlations]")
		printCorr(out, "sleep vs mood", rep.SleepCorr)
		printCorr(out, "water vs mood", rep.WaterCorr)

		fmt.Fprintln(out, "")
		printAlerts(out, rep.Alerts, cfg)

		if chart := moodChart(rep.Series, "daily mood avg, "+windowLabel(days)); chart != "" {
			fmt.Fprintln(out, "\n"+chart)
		}
		return nil
	},
}

func alertConfigFromFlags(cmd *cobra.Command) analysis.AlertConfig {
	cfg := analysis.DefaultAlertConfig()
	if v, err := cmd.Flags().GetInt("lookback-days"); err == nil && v > 0 {
		cfg.LookbackDays = v
	}
	if v, err := cmd.Flags().GetInt("baseline-days"); err == nil && v > 0 {
		cfg.BaselineDays = v
	}
	if v, err := cmd.Flags().GetInt("exclude-recent-days"); err == nil && v >= 0 {
		cfg.ExcludeRecentDays = v
	}
	if v, err := cmd.Flags().GetFloat64("dip-threshold"); err == nil && v > 0 {
		cfg.DipThreshold = v
	}
	if v, err := cmd.Flags().GetFloat64("crash-drop-day"); err == nil && v > 0 {
		cfg.CrashDropDay = v
	}
	if v, err := cmd.Flags().GetFloat64("crash-drop-3day"); err == nil && v > 0 {
		cfg.CrashDrop3Day = v
	}
	return cfg
}

var moodExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export mood entries to CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("csv")
		window, _ := cmd.Flags().GetString("window")
		if path == "" {
			return fmt.Errorf("--csv is required")
		}
		days, err := parseWindow(window)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		n, err := export.MoodCSV(clock, doc.Moods, days, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s exported %d mood rows (%s) to %s\n", okLabel(), n, windowLabel(days), path)
		return nil
	},
}

var moodExportDailyCmd = &cobra.Command{
	Use:   "export-daily",
	Short: "Export per-day mood summaries to CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("csv")
		window, _ := cmd.Flags().GetString("window")
		if path == "" {
			return fmt.Errorf("--csv is required")
		}
		days, err := parseWindow(window)
		if err != nil {
			return err
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		n, err := export.MoodDailyCSV(clock, doc.Moods, days, path)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s exported %d daily summary rows (%s) to %s\n", okLabel(), n, windowLabel(days), path)
		return nil
	},
}

var moodResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all mood entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to delete mood history without --yes")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		n := len(doc.Moods)
		doc.Moods = nil
		if err := s.Save(doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s deleted %d mood entries\n", okLabel(), n)
		return nil
	},
}

var moodDedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove exact-duplicate mood entries",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}

		seen := map[string]bool{}
		var kept []store.MoodEntry
		for _, m := range doc.Moods {
			key := m.DedupeKey()
			if seen[key] {
				continue
			}
			seen[key] = true
			kept = append(kept, m)
		}
		removed := len(doc.Moods) - len(kept)

		out := cmd.OutOrStdout()
		if removed == 0 {
			fmt.Fprintln(out, "no duplicate mood entries found")
			return nil
		}
		if dryRun {
			fmt.Fprintf(out, "%s would remove %d duplicate entries (dry run)\n", warnLabel(), removed)
			return nil
		}
		doc.Moods = kept
		if err := s.Save(doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s removed %d duplicate entries\n", okLabel(), removed)
		return nil
	},
}

func init() {
	moodAddCmd.Flags().String("time", "", "When the mood was felt (e.g. \"7:34am\", \"3 days ago\")")
	moodAddCmd.Flags().String("notes", "", "Free-form notes")
	moodAddCmd.Flags().String("tags", "", "Comma or space-separated tags")
	moodAddCmd.Flags().String("sleep-total", "", "Total sleep (minutes, H:MM, or 7h30m)")
	moodAddCmd.Flags().String("sleep-rem", "", "REM sleep (same formats)")
	moodAddCmd.Flags().String("sleep-deep", "", "Deep sleep (same formats)")

	moodListCmd.Flags().Int("limit", 20, "Most recent entries to show (0 = all)")

	moodStatsCmd.Flags().String("window", "30", "Day window: a day count or \"all\"")
	moodStatsCmd.Flags().Float64("trend-epsilon", analysis.DefaultTrendEpsilon, "Stable band in mood points/day")

	moodAnalyzeCmd.Flags().String("window", "30", "Day window: a day count or \"all\"")
	moodAnalyzeCmd.Flags().Float64("trend-epsilon", analysis.DefaultTrendEpsilon, "Stable band in mood points/day")
	moodAnalyzeCmd.Flags().Int("lookback-days", 90, "Alert lookback window")
	moodAnalyzeCmd.Flags().Int("baseline-days", 30, "Baseline pool size in days")
	moodAnalyzeCmd.Flags().Int("exclude-recent-days", 3, "Recent days excluded from the baseline")
	moodAnalyzeCmd.Flags().Float64("dip-threshold", 1.0, "Dip threshold below baseline")
	moodAnalyzeCmd.Flags().Float64("crash-drop-day", 2.0, "Day-to-day crash drop threshold")
	moodAnalyzeCmd.Flags().Float64("crash-drop-3day", 1.5, "3-day average crash drop threshold")

	moodExportCmd.Flags().String("csv", "", "Output CSV path")
	moodExportCmd.Flags().String("window", "all", "Day window: a day count or \"all\"")
	moodExportDailyCmd.Flags().String("csv", "", "Output CSV path")
	moodExportDailyCmd.Flags().String("window", "all", "Day window: a day count or \"all\"")

	moodResetCmd.Flags().Bool("yes", false, "Confirm deletion")
	moodDedupeCmd.Flags().Bool("dry-run", false, "Report duplicates without removing them")

	moodCmd.AddCommand(moodAddCmd)
	moodCmd.AddCommand(moodListCmd)
	moodCmd.AddCommand(moodTodayCmd)
	moodCmd.AddCommand(moodStatsCmd)
	moodCmd.AddCommand(moodAnalyzeCmd)
	moodCmd.AddCommand(moodExportCmd)
	moodCmd.AddCommand(moodExportDailyCmd)
	moodCmd.AddCommand(moodResetCmd)
	moodCmd.AddCommand(moodDedupeCmd)
}
