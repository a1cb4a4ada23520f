// Package output renders check results and run banners on the console.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/jwalton/go-supportscolor"

	"github.com/vertti/pygate/pkg/check"
)

var (
	green = "\033[32m"
	red   = "\033[31m"
	dim   = "\033[2m"
	reset = "\033[0m"
)

func init() {
	if !supportscolor.Stdout().SupportsColor {
		green, red, dim, reset = "", "", "", ""
	}
}

// CompletionMessage is printed once every configured check has run.
const CompletionMessage = "All checks (linting, type checking, formatting, security, and docstring validation) have been completed!"

const bannerDashes = "-------------------------------"

// Banner writes the section banner printed before each check runs.
func Banner(w io.Writer, name string) {
	fmt.Fprintf(w, "%s %s %s\n", bannerDashes, name, bannerDashes)
}

// PrintResult writes a check result with colored status. Details are
// indented to line up behind the status tag.
func PrintResult(w io.Writer, r check.Result) {
	if r.OK() {
		fmt.Fprintf(w, "%s[OK]%s %s\n", green, reset, r.Name)
		for _, d := range r.Details {
			fmt.Fprintf(w, "     %s\n", formatLabel(d))
		}
		return
	}

	fmt.Fprintf(w, "%s[FAIL]%s %s\n", red, reset, r.Name)
	for _, d := range r.Details {
		fmt.Fprintf(w, "       %s\n", formatLabel(d))
	}
}

// formatLabel dims the "label:" prefix of a detail line, if it has one.
func formatLabel(d string) string {
	label, rest, found := strings.Cut(d, ": ")
	if !found {
		return d
	}
	return dim + label + ":" + reset + " " + rest
}
