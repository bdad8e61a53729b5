// Package cli defines the carelog command tree.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sadopc/carelog/internal/store"
	"github.com/sadopc/carelog/internal/timeparse"
	"github.com/sadopc/carelog/internal/tui"
)

// clock supplies "now" to every command; tests swap it out.
var clock timeparse.Clock = time.Now

var rootCmd = &cobra.Command{
	Use:           "carelog",
	Short:         "Track medication, mood, water, and focus from the terminal.",
	Long:          `Carelog keeps medication doses, mood check-ins, water intake, and focus sessions in one local JSON file and analyzes the trends.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("data", "", "Path to the data file (overrides everything else)")
	rootCmd.PersistentFlags().String("profile", "", "Profile name; scopes the default data file")
	rootCmd.PersistentFlags().Bool("allow-repo-data-path", false, "Allow the data file to live inside a git repository")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "bind root flags:", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(whereCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(medCmd)
	rootCmd.AddCommand(moodCmd)
	rootCmd.AddCommand(waterCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(tuiCmd)
}

func initConfig() {
	// CARELOG_DATA, CARELOG_PROFILE, etc.
	viper.SetEnvPrefix("CARELOG")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// dataPath resolves the effective data file location.
func dataPath() (string, error) {
	return store.ResolveDataPath(viper.GetString("data"), viper.GetString("profile"))
}

// openStore resolves the data path, runs the git-repo guard, and
// returns a store bound to it.
func openStore() (*store.Store, error) {
	path, err := dataPath()
	if err != nil {
		return nil, err
	}
	if err := store.CheckSafeDataPath(path, viper.GetBool("allow-repo-data-path")); err != nil {
		return nil, err
	}
	return store.New(path), nil
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	RunE: func(_ *cobra.Command, _ []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		return tui.Run(s)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errLabel(), err)
		os.Exit(1)
	}
}
