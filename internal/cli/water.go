package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/carelog/internal/analysis"
	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
)

var waterCmd = &cobra.Command{
	Use:   "water",
	Short: "Log and review water intake",
}

var waterAddCmd = &cobra.Command{
	Use:   "add OZ",
	Short: "Log water in ounces",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		oz, err := strconv.Atoi(args[0])
		if err != nil || oz <= 0 {
			return fmt.Errorf("amount must be a positive whole number of ounces (got %q)", args[0])
		}
		when, _ := cmd.Flags().GetString("time")
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
		doc.Water = append(doc.Water, store.WaterEntry{TS: timeparse.FormatEntry(ts), Oz: oz})
		if err := s.Save(doc); err != nil {
			return err
		}

		day := ts.Format("2006-01-02")
		total := analysis.WaterTodayTotal(clock, doc.Water)
		goal := doc.WaterGoalFor(day)
		fmt.Fprintf(cmd.OutOrStdout(), "%s logged %d oz @ %s (today: %d/%d oz)\n",
			okLabel(), oz, timeparse.FormatClock(ts), total, goal)
		return nil
	},
}

var waterTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's intake against the goal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		day := clock().In(time.Local).Format("2006-01-02")
		total := analysis.WaterTodayTotal(clock, doc.Water)
		goal := doc.WaterGoalFor(day)
		fmt.Fprintf(cmd.OutOrStdout(), "today: %d oz of %d oz goal (%d%%)\n", total, goal, percent(total, goal))
		return nil
	},
}

var waterStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Daily totals over a window",
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
		series := analysis.WaterDaily(clock, doc.Water, days)
		out := cmd.OutOrStdout()
		if len(series) == 0 {
			fmt.Fprintf(out, "no water entries found in %s\n", windowLabel(days))
			return nil
		}

		fmt.Fprintf(out, "=== Water stats (%s) ===\n", windowLabel(days))
		var rows [][]string
		for _, p := range series {
			day := fmtDay(p.Day)
			goal := doc.WaterGoalFor(day)
			rows = append(rows, []string{
				day,
				strconv.Itoa(int(p.Value)),
				strconv.Itoa(goal),
				fmt.Sprintf("%d%%", percent(int(p.Value), goal)),
			})
		}
		return renderTable(out, []string{"Day", "Oz", "Goal", "Progress"}, rows)
	},
}

var waterGoalCmd = &cobra.Command{
	Use:   "goal OZ",
	Short: "Set the daily water goal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		oz, err := strconv.Atoi(args[0])
		if err != nil || oz <= 0 {
			return fmt.Errorf("goal must be a positive whole number of ounces (got %q)", args[0])
		}
		day, _ := cmd.Flags().GetString("day")
		if day == "" {
			day = store.WaterGoalKeyDefault
		} else if day != store.WaterGoalKeyDefault {
			if _, err := time.ParseInLocation("2006-01-02", day, time.Local); err != nil {
				return fmt.Errorf("--day must be YYYY-MM-DD or %q (got %q)", store.WaterGoalKeyDefault, day)
			}
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		doc, err := s.Load()
		if err != nil {
			return err
		}
		if doc.WaterGoals == nil {
			doc.WaterGoals = map[string]int{}
		}
		doc.WaterGoals[day] = oz
		if err := s.Save(doc); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s water goal for %s set to %d oz\n", okLabel(), day, oz)
		return nil
	},
}

func init() {
	waterAddCmd.Flags().String("time", "", "When the water was drunk")
	waterStatsCmd.Flags().Int("days", 7, "Lookback window in days")
	waterGoalCmd.Flags().String("day", "", "Day to scope the goal to (YYYY-MM-DD); empty sets the default")

	waterCmd.AddCommand(waterAddCmd)
	waterCmd.AddCommand(waterTodayCmd)
	waterCmd.AddCommand(waterStatsCmd)
	waterCmd.AddCommand(waterGoalCmd)
}
