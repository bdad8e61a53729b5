package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sadopc/carelog/internal/analysis"
	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data file if it does not exist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		if err := s.Save(doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s initialized data file: %s\n", okLabel(), s.Path())
		return nil
	},
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Print the data file location and why it was chosen",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := dataPath()
		if err != nil {
			return err
		}

		reason := "default config location"
		switch {
		case viper.GetString("data") != "" && rootCmd.PersistentFlags().Changed("data"):
			reason = "because you passed --data"
		case os.Getenv(store.EnvDataPath) != "":
			reason = "because " + store.EnvDataPath + " is set"
		case viper.GetString("data") != "":
			reason = "because CARELOG_DATA is set"
		case viper.GetString("profile") != "":
			reason = fmt.Sprintf("because you used --profile %q", viper.GetString("profile"))
		}

		fmt.Fprintln(cmd.OutOrStdout(), path)
		fmt.Fprintln(cmd.OutOrStdout(), dimColor.Sprint("using "+reason))
		return nil
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check data path safety, readability, and permissions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "=== carelog doctor ===")

		path, err := dataPath()
		if err != nil {
			return err
		}
		if err := store.CheckSafeDataPath(path, viper.GetBool("allow-repo-data-path")); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s data path safety guard\n", okLabel())

		if _, err := store.New(path).Load(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s JSON readable\n", okLabel())

		if info, err := os.Stat(path); err == nil {
			fmt.Fprintf(out, "%s file permissions: %04o (target 0600)\n", okLabel(), info.Mode().Perm())
		} else {
			fmt.Fprintf(out, "%s data file missing (run `carelog init`)\n", warnLabel())
		}
		fmt.Fprintln(out, "=== done ===")
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "One-screen overview: recent mood, today's meds, water, focus",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		fmt.Fprintln(out, "=== carelog summary ===")
		fmt.Fprintln(out, dimColor.Sprint(s.Path()))

		fmt.Fprintln(out, "\n[Mood, last 7 days]")
		series := analysis.MoodDaily(clock, doc.Moods, 7)
		if len(series) == 0 {
			fmt.Fprintln(out, "no mood entries yet")
		} else {
			for _, p := range series {
				fmt.Fprintf(out, "- %s: %.2f/10 (%d entries)\n", fmtDay(p.Day), p.Value, p.Count)
			}
			fmt.Fprintf(out, "  %s\n", sparkline(series.Values()))
		}

		fmt.Fprintln(out, "\n[Medication, today]")
		meds := analysis.MedsToday(clock, doc.Medications)
		if len(meds) == 0 {
			fmt.Fprintln(out, "no meds logged today")
		} else {
			for i := len(meds) - 1; i >= 0; i-- {
				m := meds[i]
				ts, _ := timeparse.FromEntry(m.TS)
				fmt.Fprintf(out, "- %s: %s %s\n", timeparse.FormatClock(ts), m.Name, m.Dose)
			}
		}

		day := clock().In(time.Local).Format("2006-01-02")
		total := analysis.WaterTodayTotal(clock, doc.Water)
		goal := doc.WaterGoalFor(day)
		fmt.Fprintln(out, "\n[Water, today]")
		fmt.Fprintf(out, "- %d oz of %d oz goal (%d%%)\n", total, goal, percent(total, goal))

		count, minutes := analysis.FocusToday(clock, doc.FocusSessions)
		fmt.Fprintln(out, "\n[Focus, today]")
		fmt.Fprintf(out, "- %d sessions, %d min\n", count, minutes)
		return nil
	},
}

func percent(have, want int) int {
	if want <= 0 {
		return 0
	}
	return have * 100 / want
}
