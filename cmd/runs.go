package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/qbstats/internal/model"
	"github.com/sells-group/qbstats/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect scrape run history",
	Long:  "Commands for listing and viewing scrape runs and their archived records.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scrape runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return errStoreDisabled
		}
		defer st.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{
			Status: model.RunStatus(status),
			Limit:  limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return errStoreDisabled
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

// -- runs records --

var runsRecordsCmd = &cobra.Command{
	Use:   "records <run-id>",
	Short: "List the records archived by a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		if st == nil {
			return errStoreDisabled
		}
		defer st.Close() //nolint:errcheck

		records, err := st.ListRecords(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs records")
		}

		formatRecords(os.Stdout, records)
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by run status (running, complete, failed)")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsRecordsCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatRunsList writes a table of runs to out.
func formatRunsList(out io.Writer, runs []model.Run) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Years", "Status", "Records", "Skipped", "Created", "Duration"})

	for _, r := range runs {
		records, skipped := "", ""
		if r.Result != nil {
			records = fmt.Sprint(r.Result.Records)
			if len(r.Result.SkippedYears) > 0 {
				skipped = fmt.Sprint(r.Result.SkippedYears)
			}
		}
		t.AppendRow(table.Row{
			truncateID(r.ID),
			fmt.Sprint(r.Years),
			r.Status,
			records,
			skipped,
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.UpdatedAt.Sub(r.CreatedAt).Round(time.Second).String(),
		})
	}
	t.Render()
}

// formatRecords writes a compact table of archived records to out.
func formatRecords(out io.Writer, records []model.QuarterbackSeasonRecord) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Year", "Name", "Team", "Total Yards", "Total TDs", "TD/INT", "Playoff Status"})

	for _, r := range records {
		t.AppendRow(table.Row{
			r.Year, r.Name, r.StandardizedTeam,
			optInt(r.TotalYards), optInt(r.TotalTDs),
			fmt.Sprintf("%.2f", r.TDToINTRatio), r.PlayoffStatus,
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d records", len(records))})
	t.Render()
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(*v)
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
