package suite

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestGenerate(t *testing.T) {
	s, err := Generate(GenerateOptions{Name: "generator-test", Version: "0.0.1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.Name != "generator-test" || s.Version != "0.0.1" {
		t.Errorf("header = %s %s, want generator-test 0.0.1", s.Name, s.Version)
	}
	if s.SpecVersion != SpecVersion {
		t.Errorf("spec_version = %d, want %d", s.SpecVersion, SpecVersion)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("generated suite does not validate: %v", err)
	}

	var required, optional int
	for _, test := range s.Tests {
		if test.Required {
			required++
		} else {
			optional++
		}
	}
	if required == 0 || optional == 0 {
		t.Errorf("generated %d required and %d optional tests, want both banks populated", required, optional)
	}
}

func TestGenerateDefaults(t *testing.T) {
	s, err := Generate(GenerateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name == "" || s.Version == "" {
		t.Errorf("header = %q %q, want non-empty defaults", s.Name, s.Version)
	}
}

// A generated suite consumed immediately by this implementation's own
// runner must produce a fully green TAP stream.
func TestGeneratedSuiteSelfRuns(t *testing.T) {
	s, err := Generate(GenerateOptions{Name: "self", Version: "dev"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var out bytes.Buffer
	runner := &Runner{Strict: true, Out: &out}
	result := runner.Run([]*Suite{s})

	if !result.Ok() {
		t.Errorf("self-run failed:\n%s", out.String())
	}
	if result.Passed != result.Total {
		t.Errorf("passed %d of %d tests:\n%s", result.Passed, result.Total, out.String())
	}
}

func TestGeneratedSuiteSerializes(t *testing.T) {
	s, err := Generate(GenerateOptions{Name: "serialize", Version: "dev"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	encoded, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := Read(strings.NewReader(string(encoded)), "roundtrip")
	if err != nil {
		t.Fatalf("serialized suite does not reload: %v", err)
	}
	if len(reloaded.Tests) != len(s.Tests) {
		t.Errorf("reloaded %d tests, want %d", len(reloaded.Tests), len(s.Tests))
	}
}
