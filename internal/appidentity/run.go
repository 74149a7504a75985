package appidentity

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gitlab.com/caffeinatedjack/appidentity/pkg/suite"
)

var (
	runStdin      bool
	runStrict     bool
	runDiagnostic bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&runStdin, "stdin", false, "Read a suite document from stdin")
	runCmd.Flags().BoolVarP(&runStrict, "strict", "S", false, "Treat optional test failures as hard failures")
	runCmd.Flags().BoolVarP(&runDiagnostic, "diagnostic", "D", false, "Emit a YAML diagnostic block after failing tests")
}

var runCmd = &cobra.Command{
	Use:   "run [paths...]",
	Short: "Run integration suite documents and report TAP v14",
	Long: `Run one or more integration suite documents against this
implementation's verifier and report a TAP v14 stream on stdout.

Paths may name suite files or directories; directories contribute every
*.json file inside them. With --stdin a single suite document is read
from standard input.

Examples:
    appidentity run app-identity-suite-go.json
    appidentity run suites/ --strict
    appidentity run failing.json --diagnostic
    cat suite.json | appidentity run --stdin`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		suites, err := suite.Load(args)
		if err != nil {
			return err
		}
		if runStdin {
			s, err := suite.Read(os.Stdin, "stdin")
			if err != nil {
				return err
			}
			suites = append(suites, s)
		}

		runner := &suite.Runner{
			Name:       implementationName,
			Version:    Version,
			Strict:     runStrict,
			Diagnostic: runDiagnostic,
			Out:        os.Stdout,
		}
		result := runner.Run(suites)

		summary := fmt.Sprintf("%d tests: %d passed, %d failed, %d skipped, %d todo",
			result.Total, result.Passed, result.Failed, result.Skipped, result.Todo)
		if result.Ok() {
			fmt.Fprintln(os.Stderr, styled(successStyle, summary))
			return nil
		}
		fmt.Fprintln(os.Stderr, styled(errorStyle, summary))
		return errRunFailed
	},
}
