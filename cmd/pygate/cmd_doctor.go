package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vertti/pygate/pkg/check"
	"github.com/vertti/pygate/pkg/cmdrun"
	"github.com/vertti/pygate/pkg/config"
	"github.com/vertti/pygate/pkg/envman"
	"github.com/vertti/pygate/pkg/output"
	"github.com/vertti/pygate/pkg/permcheck"
	"github.com/vertti/pygate/pkg/projcheck"
	"github.com/vertti/pygate/pkg/toolcheck"
)

var (
	doctorProjectDir string
	doctorConfigPath string
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the environment without changing anything",
	Long:  "Doctor verifies that the package manager and installer interpreter are available, that the project folder looks like a Python project, and that it is writable.",
	RunE:  runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorProjectDir, "project-folder", ".", "folder to diagnose")
	doctorCmd.Flags().StringVar(&doctorConfigPath, "config", "", "path to a .pygate.yaml file (default: discovered from the project folder)")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, _, err := config.Resolve(doctorProjectDir, doctorConfigPath)
	if err != nil {
		return err
	}
	minVer, err := cfg.Manager.Min()
	if err != nil {
		return err
	}

	runner := execRunner
	if runner == nil {
		runner = &cmdrun.RealRunner{}
	}

	checkers := []check.Checker{
		&toolcheck.Check{Name: cfg.Manager.Command, Min: minVer, Exec: runner},
		&toolcheck.Check{Name: envman.InstallerPython, Exec: runner},
		&projcheck.Check{Dir: doctorProjectDir, FS: &projcheck.RealFileSystem{}},
		&permcheck.Check{Dir: doctorProjectDir},
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, c := range checkers {
		result := c.Run(cmd.Context())
		output.PrintResult(out, result)
		if !result.OK() {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checkers))
	}
	return nil
}
