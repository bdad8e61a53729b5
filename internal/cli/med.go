package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/carelog/internal/analysis"
	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

var medCmd = &cobra.Command{
	Use:   "med",
	Short: "Log and review medication doses",
}

var medAddCmd = &cobra.Command{
	Use:   "add NAME DOSE",
	Short: "Log a dose",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		when, _ := cmd.Flags().GetString("time")
		notes, _ := cmd.Flags().GetString("notes")

		ts, err := timeparse.Parse(clock, when)
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
		entry := store.MedicationEntry{
			TS:    timeparse.FormatEntry(ts),
			Name:  strings.TrimSpace(args[0]),
			Dose:  strings.TrimSpace(args[1]),
			Notes: strings.TrimSpace(notes),
		}
		doc.Medications = append(doc.Medications, entry)
		if err := s.Save(doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s logged %s %s @ %s\n", okLabel(), entry.Name, entry.Dose, timeparse.FormatClock(ts))
		return nil
	},
}

var medListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent doses",
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
		meds := doc.Medications
		if len(meds) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no medication entries yet")
			return nil
		}
		if limit > 0 && len(meds) > limit {
			meds = meds[len(meds)-limit:]
		}

		var rows [][]string
		for i := len(meds) - 1; i >= 0; i-- {
			m := meds[i]
			when := m.TS
			if ts, ok := timeparse.FromEntry(m.TS); ok {
				when = ts.Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{when, m.Name, m.Dose, m.Notes})
		}
		return renderTable(cmd.OutOrStdout(), []string{"When", "Name", "Dose", "Notes"}, rows)
	},
}

var medTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List today's doses",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		meds := analysis.MedsToday(clock, doc.Medications)
		if len(meds) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no meds logged today")
			return nil
		}
		for _, m := range meds {
			ts, _ := timeparse.FromEntry(m.TS)
			fmt.Fprintf(cmd.OutOrStdout(), "- %s: %s %s\n", timeparse.FormatClock(ts), m.Name, m.Dose)
		}
		return nil
	},
}

var medStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Dose counts by medication and by hour",
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
		st, ok := analysis.BuildMedStats(clock, doc.Medications, days)
		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintf(out, "no medication entries found in %s\n", windowLabel(days))
			return nil
		}

		fmt.Fprintf(out, "=== Medication stats (%s) ===\n", windowLabel(days))
		fmt.Fprintln(out, "\n[Counts by medication]")
		var rows [][]string
		for _, nc := range st.ByName {
			rows = append(rows, []string{nc.Name, strconv.Itoa(nc.Count)})
		}
		if err := renderTable(out, []string{"Name", "Doses"}, rows); err != nil {
			return err
		}

		fmt.Fprintln(out, "\n[Most common hours]")
		for _, hc := range st.TopHours {
			fmt.Fprintf(out, "- %s: %d\n", hourLabel(hc.Hour), hc.Count)
		}
		return nil
	},
}

// hourLabel renders a clock hour as "3 PM".
func hourLabel(hour int) string {
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}

func init() {
	medAddCmd.Flags().String("time", "", "When the dose was taken (e.g. \"7:34am\", \"yesterday 9pm\")")
	medAddCmd.Flags().String("notes", "", "Free-form notes")
	medListCmd.Flags().Int("limit", 20, "Most recent entries to show (0 = all)")
	medStatsCmd.Flags().Int("days", 30, "Lookback window in days")

	medCmd.AddCommand(medAddCmd)
	medCmd.AddCommand(medListCmd)
	medCmd.AddCommand(medTodayCmd)
	medCmd.AddCommand(medStatsCmd)
}
