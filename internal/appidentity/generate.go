package appidentity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gitlab.com/caffeinatedjack/appidentity/pkg/suite"
)

// defaultSuiteName is the filename used when no path is given.
const defaultSuiteName = "app-identity-suite-go.json"

var (
	generateStdout bool
	generateQuiet  bool
)

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(&generateStdout, "stdout", false, "Print the suite to stdout instead of writing a file")
	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "Suppress progress messages")
}

var generateCmd = &cobra.Command{
	Use:   "generate [suite_path]",
	Short: "Generate the canonical integration suite document",
	Long: `Generate the canonical JSON suite document for this implementation.

The suite contains the required test bank every conforming implementation
must pass, plus the optional bank. Without a path the suite is written to
` + defaultSuiteName + `; a path naming a directory places the default
filename inside it, and a missing .json extension is added.

Examples:
    appidentity generate
    appidentity generate vectors/
    appidentity generate nightly-vectors
    appidentity generate --stdout | appidentity run --stdin`,
	Args: maxArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		progress := func(s string) {
			if !generateQuiet && !generateStdout {
				fmt.Fprintln(os.Stderr, styled(dimStyle, s))
			}
		}

		progress("Generating integration suite...")
		s, err := suite.Generate(suite.GenerateOptions{Name: implementationName, Version: Version})
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		data = append(data, '\n')

		if generateStdout {
			_, err := os.Stdout.Write(data)
			return err
		}

		path := resolveSuitePath(firstArg(args))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("cannot write %s: %w", path, err)
		}
		progress(fmt.Sprintf("Wrote %d tests to %s", len(s.Tests), path))
		return nil
	},
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// resolveSuitePath maps the optional path argument to the output file:
// empty means the default filename, a directory gets the default
// filename appended, and a bare name gets a .json extension.
func resolveSuitePath(arg string) string {
	if arg == "" {
		return defaultSuiteName
	}
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		return filepath.Join(arg, defaultSuiteName)
	}
	if !strings.HasSuffix(arg, ".json") {
		return arg + ".json"
	}
	return arg
}
