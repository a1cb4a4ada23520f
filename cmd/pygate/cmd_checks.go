package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vertti/pygate/pkg/config"
)

var (
	checksProjectDir string
	checksConfigPath string
)

var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "Print the effective check list",
	RunE:  runChecksList,
}

func init() {
	checksCmd.Flags().StringVar(&checksProjectDir, "project-folder", ".", "folder whose configuration to resolve")
	checksCmd.Flags().StringVar(&checksConfigPath, "config", "", "path to a .pygate.yaml file (default: discovered from the project folder)")
	rootCmd.AddCommand(checksCmd)
}

func runChecksList(cmd *cobra.Command, args []string) error {
	cfg, path, err := config.Resolve(checksProjectDir, checksConfigPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if path != "" {
		fmt.Fprintf(out, "# %s\n", path)
	}
	for _, c := range cfg.Checks {
		fmt.Fprintf(out, "%s: %s\n", c.Name, strings.Join(c.Command, " "))
	}
	return nil
}
