package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "worklog",
	Short: "worklog – a time-tracking server and CLI",
	Long: `worklog records daily work, vacation, and sick entries, bulk-fills
months and years around weekends and public holidays, and reports
vacation and sick-leave balances. The serve subcommand exposes the
same operations over HTTP.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("db", "worklog.db", "SQLite database path (use :memory: for in-memory)")
	rootCmd.PersistentFlags().String("state", "", "German federal state code for holiday lookups (e.g. BY, BW, HE)")
	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("state", rootCmd.PersistentFlags().Lookup("state"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(balanceCmd)
}

// initConfig reads ~/.config/worklog/worklog.yml and WORKLOG_*
// environment variables; flags win over both.
func initConfig() {
	viper.SetConfigName("worklog")
	viper.SetConfigType("yaml")

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome != "" {
		viper.AddConfigPath(filepath.Join(configHome, "worklog"))
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("worklog")
	viper.AutomaticEnv()

	viper.SetDefault("port", 8080)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "warning: failed to read config: %v\n", err)
		}
	}
}
