package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/punchcard/worklog/store/sqlite"
	"github.com/punchcard/worklog/timesheet"
)

var (
	generateUser  string
	generateYear  int
	generateMonth int
)

var generateCmd = &cobra.Command{
	Use:   "generate [monthly|yearly]",
	Short: "Bulk-generate time entries for a month or a year",
	Long:  `generate fills the given period with work entries for every workday
that has none yet. Weekends are skipped. The yearly mode also records
public holidays of the configured federal state as holiday entries.
Re-running a period only fills the gaps.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"monthly", "yearly"},
	RunE:      runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateUser, "user", "", "User ID to generate entries for (required)")
	generateCmd.Flags().IntVar(&generateYear, "year", 0, "Year (default: current)")
	generateCmd.Flags().IntVar(&generateMonth, "month", 0, "Month 1-12, monthly mode only (default: current)")
	generateCmd.MarkFlagRequired("user")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	store, err := sqlite.New(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	if err := store.SeedDefaults(cmd.Context()); err != nil {
		return fmt.Errorf("failed to seed defaults: %w", err)
	}

	commands := timesheet.NewCommands(viper.GetString("state"))

	var result *timesheet.GenerationResult
	err = store.WithTx(cmd.Context(), func(repos timesheet.Repos) error {
		switch args[0] {
		case "monthly":
			result, err = commands.GenerateMonthly(cmd.Context(), repos, generateUser, generateYear, time.Month(generateMonth))
		case "yearly":
			result, err = commands.GenerateYearly(cmd.Context(), repos, generateUser, generateYear, commands.StateCode)
		default:
			return fmt.Errorf("unknown mode %q (want monthly or yearly)", args[0])
		}
		return err
	})
	if err != nil {
		return err
	}

	s := result.Stats
	fmt.Printf("Generated %d entries (%d days: %d workdays, %d weekend, %d holidays)\n",
		s.Generated, s.Total, s.Workdays, s.Weekends, s.Holidays)
	return nil
}
