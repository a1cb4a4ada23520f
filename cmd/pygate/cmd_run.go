package main

import (
	"github.com/spf13/cobra"
)

var (
	runEnvDir     string
	runLogDir     string
	runProjectDir string
	runConfigPath string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Provision the environment and run all checks",
	Long:  "Run installs the package manager if needed, prepares the virtual environment and tools, installs project dependencies, then runs every configured check, logging results to a timestamped file.",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runEnvDir, "env-dir", "", "directory for the virtual environment")
	runCmd.Flags().StringVar(&runLogDir, "log-folder", "", "folder to store the log file in")
	runCmd.Flags().StringVar(&runProjectDir, "project-folder", "", "folder where the checks will be applied")
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "path to a .pygate.yaml file (default: discovered from the project folder)")
	_ = runCmd.MarkFlagRequired("env-dir")
	_ = runCmd.MarkFlagRequired("log-folder")
	_ = runCmd.MarkFlagRequired("project-folder")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cmd.OutOrStdout(), runEnvDir, runLogDir, runProjectDir, runConfigPath)
	if err != nil {
		return err
	}

	store, closeStore := openHistory(runLogDir)
	defer closeStore()
	p.History = store

	outcome, err := p.Run(cmd.Context())
	if err != nil {
		return err
	}
	lastOutcome = outcome
	return nil
}
