package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vertti/pygate/pkg/watch"
)

var (
	watchLogDir     string
	watchProjectDir string
	watchConfigPath string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the checks whenever the project changes",
	Long:  "Watch runs the checks once, then watches the project folder and re-runs them after every change. Stop it with Ctrl-C.",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchLogDir, "log-folder", "", "folder to store the log files in")
	watchCmd.Flags().StringVar(&watchProjectDir, "project-folder", "", "folder to watch and check")
	watchCmd.Flags().StringVar(&watchConfigPath, "config", "", "path to a .pygate.yaml file (default: discovered from the project folder)")
	_ = watchCmd.MarkFlagRequired("log-folder")
	_ = watchCmd.MarkFlagRequired("project-folder")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cmd.OutOrStdout(), "", watchLogDir, watchProjectDir, watchConfigPath)
	if err != nil {
		return err
	}

	store, closeStore := openHistory(watchLogDir)
	defer closeStore()
	p.History = store

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runOnce := func(ctx context.Context) error {
		_, err := p.Check(ctx)
		return err
	}

	if err := runOnce(ctx); err != nil {
		return err
	}

	w := &watch.Watcher{
		Dir:      watchProjectDir,
		Debounce: p.Config.Watch.Debounce.Duration,
		Ignore:   p.Config.Watch.Ignore,
	}
	if err := w.Run(ctx, runOnce); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
