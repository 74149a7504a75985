// Package appidentity implements the CLI commands for the appidentity
// suite tool.
package appidentity

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"gitlab.com/caffeinatedjack/appidentity/pkg/suite"
)

var (
	// Version is set at build time via ldflags
	Version   = "dev"
	BuildTime = "unknown"
)

// implementationName identifies this implementation in suite headers and
// TAP diagnostic lines.
const implementationName = "appidentity-go"

var rootCmd = &cobra.Command{
	Use:   "appidentity",
	Short: "AppIdentity integration suite tooling",
	Long: `AppIdentity - application-to-application authentication suite tooling.

Generates and runs the cross-implementation integration suite for the
AppIdentity proof algorithm:
  - generate emits the canonical JSON suite document
  - run consumes suite documents and reports TAP v14

Examples:
    appidentity generate
    appidentity generate vectors --stdout
    appidentity run app-identity-suite-go.json
    appidentity run suites/ --strict --diagnostic
    appidentity generate --stdout | appidentity run --stdin`,
}

// usageError marks command-line misuse for exit code mapping.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// errRunFailed signals that at least one non-TODO suite test failed. The
// TAP stream already carries the detail.
var errRunFailed = errors.New("one or more suite tests failed")

// maxArgs wraps cobra's argument validation so violations map to the
// usage exit code.
func maxArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MaximumNArgs(n)(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "V", false, "Print the version and exit")
}

// Execute is the entry point for the appidentity CLI. Exit codes: 0 on
// success, 1 when a run fails or an operation errors, 2 on usage
// errors.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (spec %d, built %s)", Version, suite.SpecVersion, BuildTime)
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})

	err := rootCmd.Execute()
	if err == nil {
		return
	}
	if errors.Is(err, errRunFailed) {
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, styled(errorStyle, "Error: "+err.Error()))

	var uerr *usageError
	if errors.As(err, &uerr) || strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", rootCmd.Name())
		os.Exit(2)
	}
	os.Exit(1)
}
