package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/punchcard/worklog/store/sqlite"
	"github.com/punchcard/worklog/timesheet"
)

var (
	balanceUser string
	balanceYear int
)

var balanceCmd = &cobra.Command{
	Use:       "balance [vacation|sick]",
	Short:     "Show a user's vacation or sick-leave balance",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"vacation", "sick"},
	RunE:      runBalance,
}

func init() {
	balanceCmd.Flags().StringVar(&balanceUser, "user", "", "User ID (required)")
	balanceCmd.Flags().IntVar(&balanceYear, "year", 0, "Year (default: current)")
	balanceCmd.MarkFlagRequired("user")
}

func runBalance(cmd *cobra.Command, args []string) error {
	store, err := sqlite.New(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	if err := store.SeedDefaults(cmd.Context()); err != nil {
		return fmt.Errorf("failed to seed defaults: %w", err)
	}

	commands := timesheet.NewCommands(viper.GetString("state"))

	return store.WithTx(cmd.Context(), func(repos timesheet.Repos) error {
		switch args[0] {
		case "vacation":
			b, err := commands.VacationBalance(cmd.Context(), repos, balanceUser, balanceYear)
			if err != nil {
				return err
			}
			fmt.Printf("Vacation %d: %s of %s days taken, %s remaining (criticality %d)\n",
				b.Year, b.TakenDays, b.TotalDays, b.RemainingDays, b.Criticality)
		case "sick":
			b, err := commands.SickLeaveBalance(cmd.Context(), repos, balanceUser, balanceYear)
			if err != nil {
				return err
			}
			fmt.Printf("Sick leave %d: %d days (criticality %d)\n",
				b.Year, b.TotalDays, b.Criticality)
		default:
			return fmt.Errorf("unknown balance %q (want vacation or sick)", args[0])
		}
		return nil
	})
}
