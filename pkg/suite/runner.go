package suite

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"gitlab.com/caffeinatedjack/appidentity/pkg/appidentity"
)

// Runner evaluates suite documents and reports a TAP v14 stream.
type Runner struct {
	// Name and Version identify this runner in the per-suite
	// diagnostic lines.
	Name    string
	Version string

	// Strict turns optional-test failures into hard failures instead of
	// TODO lines.
	Strict bool

	// Diagnostic appends a YAML block with the failure message after
	// each failing test line.
	Diagnostic bool

	// Out receives the TAP stream.
	Out io.Writer
}

// Result summarizes a run. The run is green when Ok reports true.
type Result struct {
	Total   int
	Passed  int
	Failed  int
	Skipped int
	Todo    int
}

// Ok reports whether every test was ok, skipped, or an allowed TODO.
func (r *Result) Ok() bool {
	return r.Failed == 0
}

func (r *Runner) name() string {
	if r.Name == "" {
		return "appidentity"
	}
	return r.Name
}

func (r *Runner) version() string {
	if r.Version == "" {
		return "dev"
	}
	return r.Version
}

// Run evaluates every test in every suite, in load order, numbering
// tests globally, and writes the TAP stream to Out.
func (r *Runner) Run(suites []*Suite) *Result {
	result := &Result{}
	for _, s := range suites {
		result.Total += len(s.Tests)
	}

	fmt.Fprintln(r.Out, "TAP Version 14")
	fmt.Fprintf(r.Out, "1..%d\n", result.Total)
	if result.Total == 0 {
		fmt.Fprintln(r.Out, "# No suites provided.")
		return result
	}

	n := 0
	for _, s := range suites {
		fmt.Fprintf(r.Out, "# generator: %s %s\n", s.Name, s.Version)
		fmt.Fprintf(r.Out, "# runner: %s %s (spec %d)\n", r.name(), r.version(), SpecVersion)

		for i := range s.Tests {
			n++
			r.runTest(n, s, &s.Tests[i], result)
		}
	}
	return result
}

func (r *Runner) runTest(n int, s *Suite, t *Test, result *Result) {
	testSpec := t.SpecVersion
	if s.SpecVersion > testSpec {
		testSpec = s.SpecVersion
	}
	if testSpec > SpecVersion {
		fmt.Fprintf(r.Out, "ok %d - %s # SKIP unsupported spec version %d < %d\n",
			n, t.Description, SpecVersion, testSpec)
		result.Skipped++
		return
	}

	ok, message := evaluate(t)
	if ok {
		fmt.Fprintf(r.Out, "ok %d - %s\n", n, t.Description)
		result.Passed++
		return
	}

	if !t.Required && !r.Strict {
		fmt.Fprintf(r.Out, "not ok %d - %s # TODO optional failing test\n", n, t.Description)
		result.Todo++
	} else {
		fmt.Fprintf(r.Out, "not ok %d - %s\n", n, t.Description)
		result.Failed++
	}
	if r.Diagnostic {
		r.writeDiagnostic(message)
	}
}

// evaluate runs a single test against the core verifier. Every error is
// contained here; a test can fail but never abort the run.
func evaluate(t *Test) (bool, string) {
	app, err := appidentity.VerifyProofString(t.Proof, t.App.Input())
	verified := err == nil && app != nil && app.Verified

	switch t.Expect {
	case "pass":
		if verified {
			return true, ""
		}
		if err != nil {
			return false, err.Error()
		}
		return false, "proof did not verify"
	case "fail":
		if !verified {
			return true, ""
		}
		return false, "proof verified but failure was expected"
	}
	return false, fmt.Sprintf("unknown expectation %q", t.Expect)
}

// writeDiagnostic emits the TAP YAML diagnostic block for a failure.
func (r *Runner) writeDiagnostic(message string) {
	encoded, err := yaml.Marshal(map[string]string{"message": message})
	if err != nil {
		return
	}

	fmt.Fprintln(r.Out, "  ---")
	for _, line := range strings.Split(strings.TrimRight(string(encoded), "\n"), "\n") {
		fmt.Fprintf(r.Out, "  %s\n", line)
	}
	fmt.Fprintln(r.Out, "  ...")
}
