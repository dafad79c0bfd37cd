package cli

import (
	"github.com/spf13/cobra"

	"print-timesheet/internal/app"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tsctl",
	Short: "Administer the print-shop timesheet",
	Long: `tsctl runs offline maintenance against the timesheet database:
schema migrations, account bootstrap and spreadsheet export.`,
	SilenceUsage: true,
}

// withApp wires the application for one command and tears it down after.
func withApp(fn func(*cobra.Command, *app.App, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := app.New(configPath)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(cmd, a, args)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(exportCmd)
}
