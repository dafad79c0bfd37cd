package cli

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata" // timesheet.location must resolve on hosts without zoneinfo

	"github.com/spf13/cobra"

	"print-timesheet/internal/app"
	"print-timesheet/internal/service"
)

var (
	exportDate string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write one day's grid to an xlsx file",
	Args:  cobra.NoArgs,
	RunE: withApp(func(cmd *cobra.Command, a *app.App, _ []string) error {
		day := exportDate
		if day == "" {
			var err error
			if day, err = dateKeyIn(a.Config.Timesheet.Location, time.Now()); err != nil {
				return err
			}
		}
		buf, filename, err := a.Svc.Export.ExportGrid(cmd.Context(), service.SystemActor(), day)
		if err != nil {
			return err
		}
		out := exportOut
		if out == "" {
			out = filename
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		return nil
	}),
}

// dateKeyIn returns the shop's calendar day for now, not the host's.
func dateKeyIn(location string, now time.Time) (string, error) {
	loc, err := time.LoadLocation(location)
	if err != nil {
		return "", fmt.Errorf("load timesheet location %q: %w", location, err)
	}
	return now.In(loc).Format("2006-01-02"), nil
}

func init() {
	exportCmd.Flags().StringVar(&exportDate, "date", "", "day to export, YYYY-MM-DD (default today)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default timesheet-<date>.xlsx)")
}
