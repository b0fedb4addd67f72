package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/arbor/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newReportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Reports over the project hierarchy",
	}
	cmd.AddCommand(newReportActiveCmd(app))
	return cmd
}

func newReportActiveCmd(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "active",
		Short: "List projects and tasks active on a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now().UTC()
			if date != "" {
				parsed, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("invalid date %q: use YYYY-MM-DD", date)
				}
				day = parsed
			}

			report, err := app.Reports.ActiveOn(cmd.Context(), day)
			if err != nil {
				return err
			}
			return app.emit(cmd, report, func() string {
				return formatter.FormatActiveReport(*report)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to report on (YYYY-MM-DD, default now)")

	return cmd
}
