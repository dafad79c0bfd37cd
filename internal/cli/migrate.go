package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"print-timesheet/internal/app"
	"print-timesheet/pkg/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app.App, _ []string) error {
		if err := a.Migrate(); err != nil {
			return err
		}
		return printVersion(cmd, a)
	}),
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, a *app.App, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			steps = n
		}
		mg, err := database.NewMigrator(a.SQLDB, a.Config.Database.Driver, a.Logger)
		if err != nil {
			return err
		}
		if err := mg.Down(steps); err != nil {
			return err
		}
		return printVersion(cmd, a)
	}),
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app.App, _ []string) error {
		return printVersion(cmd, a)
	}),
}

func printVersion(cmd *cobra.Command, a *app.App) error {
	mg, err := database.NewMigrator(a.SQLDB, a.Config.Database.Driver, a.Logger)
	if err != nil {
		return err
	}
	version, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty)\n", version)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
	return nil
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}
