package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vertti/pygate/pkg/history"
)

var (
	historyLogDir string
	historyLimit  int
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs, newest first",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyLogDir, "log-folder", "", "folder holding the run database")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "maximum number of runs to list")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "emit JSON instead of text")
	_ = historyCmd.MarkFlagRequired("log-folder")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open(filepath.Join(historyLogDir, history.DefaultFileName))
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.RecentRuns(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if historyJSON {
		type runWithChecks struct {
			history.Run
			Checks []history.RunCheck `json:"checks"`
		}
		detailed := make([]runWithChecks, 0, len(runs))
		for _, r := range runs {
			checks, err := store.RunChecks(cmd.Context(), r.ID)
			if err != nil {
				return err
			}
			detailed = append(detailed, runWithChecks{Run: r, Checks: checks})
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(detailed)
	}

	for _, r := range runs {
		status := "PASS"
		if r.Failed > 0 {
			status = "FAIL"
		}
		fmt.Fprintf(out, "%s  %s  %s  %d/%d passed  %dms\n",
			r.StartedAt.Format(time.RFC3339), r.ID, status,
			r.Passed, r.Passed+r.Failed, r.DurationMS)
	}
	return nil
}
