package main

import (
	"github.com/spf13/cobra"
)

var (
	checkLogDir     string
	checkProjectDir string
	checkConfigPath string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the checks against an already provisioned project",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkLogDir, "log-folder", "", "folder to store the log file in")
	checkCmd.Flags().StringVar(&checkProjectDir, "project-folder", "", "folder where the checks will be applied")
	checkCmd.Flags().StringVar(&checkConfigPath, "config", "", "path to a .pygate.yaml file (default: discovered from the project folder)")
	_ = checkCmd.MarkFlagRequired("log-folder")
	_ = checkCmd.MarkFlagRequired("project-folder")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cmd.OutOrStdout(), "", checkLogDir, checkProjectDir, checkConfigPath)
	if err != nil {
		return err
	}

	store, closeStore := openHistory(checkLogDir)
	defer closeStore()
	p.History = store

	outcome, err := p.Check(cmd.Context())
	if err != nil {
		return err
	}
	lastOutcome = outcome
	return nil
}
