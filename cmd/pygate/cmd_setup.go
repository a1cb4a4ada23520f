package main

import (
	"github.com/spf13/cobra"
)

var (
	setupEnvDir     string
	setupProjectDir string
	setupConfigPath string
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision the environment without running any checks",
	RunE:  runSetup,
}

func init() {
	setupCmd.Flags().StringVar(&setupEnvDir, "env-dir", "", "directory for the virtual environment")
	setupCmd.Flags().StringVar(&setupProjectDir, "project-folder", "", "folder containing the Python project")
	setupCmd.Flags().StringVar(&setupConfigPath, "config", "", "path to a .pygate.yaml file (default: discovered from the project folder)")
	_ = setupCmd.MarkFlagRequired("env-dir")
	_ = setupCmd.MarkFlagRequired("project-folder")
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	p, err := newPipeline(cmd.OutOrStdout(), setupEnvDir, "", setupProjectDir, setupConfigPath)
	if err != nil {
		return err
	}
	return p.Setup(cmd.Context())
}
