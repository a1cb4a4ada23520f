package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vertti/pygate/pkg/exec"
	"github.com/vertti/pygate/pkg/gate"
	"github.com/vertti/pygate/pkg/logging"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	debugLogging bool
	logCleanup   = func() {}

	// lastOutcome holds the result of the run or check command, consulted
	// before handing the process over to an entrypoint command.
	lastOutcome *gate.Outcome

	executor exec.Executor = &exec.RealExecutor{}
)

var rootCmd = &cobra.Command{
	Use:          "pygate",
	Short:        "Poetry provisioning and quality gate for Python projects",
	Long:         "Pygate sets up a Poetry-managed environment and runs lint, type, formatting, security and docstring checks against a project, logging every result.",
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if debugLogging {
			level = "debug"
		}
		cleanup, err := logging.SetupDefault(logging.Config{Level: level})
		if err != nil {
			return err
		}
		logCleanup = cleanup
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "enable debug logging")
}

func main() {
	execArgs := extractExecArgs(&os.Args)

	err := rootCmd.Execute()
	logCleanup()
	if err != nil {
		os.Exit(1)
	}

	if err := runExec(execArgs); err != nil {
		fmt.Fprintf(os.Stderr, "exec: %v\n", err)
		os.Exit(1)
	}
}

// extractExecArgs strips everything after "--" from args and returns it.
func extractExecArgs(args *[]string) []string {
	for i, a := range *args {
		if a == "--" {
			execArgs := (*args)[i+1:]
			*args = (*args)[:i]
			return execArgs
		}
	}
	return nil
}

// runExec hands the process over to the entrypoint command. It refuses
// unless the preceding run passed every check.
func runExec(args []string) error {
	if len(args) == 0 {
		return nil
	}
	if lastOutcome == nil || !lastOutcome.AllOK() {
		return errors.New("checks did not pass; command not executed")
	}
	return executor.Exec(args[0], args[1:])
}
