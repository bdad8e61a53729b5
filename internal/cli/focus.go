package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sadopc/carelog/internal/analysis"
	"github.com/sadopc/carelog/internal/export"
	"github.com/sadopc/carelog/internal/timeparse"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Review focus sessions logged from the timer",
}

var focusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent sessions",
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
		sessions := doc.FocusSessions
		if len(sessions) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no focus sessions yet")
			return nil
		}
		if limit > 0 && len(sessions) > limit {
			sessions = sessions[len(sessions)-limit:]
		}

		var rows [][]string
		for i := len(sessions) - 1; i >= 0; i-- {
			f := sessions[i]
			when := f.TS
			if ts, ok := timeparse.FromEntry(f.TS); ok {
				when = ts.Format("2006-01-02 15:04")
			}
			done := "no"
			if f.Completed {
				done = "yes"
			}
			rows = append(rows, []string{when, f.Task, f.Type, strconv.Itoa(f.DurationMin), done})
		}
		return renderTable(cmd.OutOrStdout(), []string{"When", "Task", "Type", "Min", "Done"}, rows)
	},
}

var focusStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Session counts, completion, and per-day minutes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		days, _ := cmd.Flags().GetInt("days")

		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		st := analysis.BuildFocusStats(clock, doc.FocusSessions, days)
		out := cmd.OutOrStdout()
		if st.Sessions == 0 {
			fmt.Fprintf(out, "no focus sessions found in %s\n", windowLabel(days))
			return nil
		}

		fmt.Fprintf(out, "=== Focus stats (%s) ===\n", windowLabel(days))
		fmt.Fprintf(out, "- sessions: %d (%d completed)\n", st.Sessions, st.Completed)
		fmt.Fprintf(out, "- total focus time: %d min\n", st.TotalMinutes)

		if len(st.Daily) > 0 {
			fmt.Fprintln(out, "\n[Minutes per day]")
			for _, p := range st.Daily {
				fmt.Fprintf(out, "- %s: %d min (%d sessions)\n", fmtDay(p.Day), int(p.Value), p.Count)
			}
		}
		return nil
	},
}

var focusExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions to CSV or JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		csvPath, _ := cmd.Flags().GetString("csv")
		jsonPath, _ := cmd.Flags().GetString("json")
		days, _ := cmd.Flags().GetInt("days")
		if csvPath == "" && jsonPath == "" {
			return fmt.Errorf("pass --csv or --json with an output path")
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if csvPath != "" {
			n, err := export.FocusCSV(clock, doc.FocusSessions, days, csvPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s exported %d sessions to %s\n", okLabel(), n, csvPath)
		}
		if jsonPath != "" {
			n, err := export.FocusJSON(clock, doc.FocusSessions, days, jsonPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s exported %d sessions to %s\n", okLabel(), n, jsonPath)
		}
		return nil
	},
}

func init() {
	focusListCmd.Flags().Int("limit", 20, "Most recent sessions to show (0 = all)")
	focusStatsCmd.Flags().Int("days", 7, "Lookback window in days")
	focusExportCmd.Flags().String("csv", "", "Output CSV path")
	focusExportCmd.Flags().String("json", "", "Output JSON path")
	focusExportCmd.Flags().Int("days", 0, "Lookback window in days (0 = all)")

	focusCmd.AddCommand(focusListCmd)
	focusCmd.AddCommand(focusStatsCmd)
	focusCmd.AddCommand(focusExportCmd)
}
