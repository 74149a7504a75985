// Package suite implements the cross-implementation integration suite
// format: a JSON document enumerating proofs with expected outcomes, a
// generator that emits one, and a runner that reports TAP v14.
package suite

import (
	"fmt"

	"gitlab.com/caffeinatedjack/appidentity/pkg/appidentity"
)

// SpecVersion is the highest algorithm version this implementation
// covers. Suites or tests declaring a higher value are skipped by the
// runner.
const SpecVersion = 4

// Suite is the canonical integration test document. It is generated by
// one implementation and consumed by every other.
type Suite struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	SpecVersion int    `json:"spec_version"`
	Description string `json:"description,omitempty"`
	Tests       []Test `json:"tests"`
}

// Test is a single proof with its expected outcome.
type Test struct {
	Description string  `json:"description"`
	App         TestApp `json:"app"`
	Proof       string  `json:"proof"`
	Expect      string  `json:"expect"`
	Required    bool    `json:"required"`
	SpecVersion int     `json:"spec_version"`
}

// TestApp is the verifier-side credential for a test. The id may be a
// string or an integer, mirroring what App construction accepts.
type TestApp struct {
	ID      any            `json:"id"`
	Secret  string         `json:"secret"`
	Version int            `json:"version"`
	Config  map[string]any `json:"config,omitempty"`
}

// Input converts the credential to the core library's input form.
func (a TestApp) Input() appidentity.AppInput {
	var config any
	if a.Config != nil {
		config = a.Config
	}
	return appidentity.AppInput{
		ID:      a.ID,
		Secret:  a.Secret,
		Version: a.Version,
		Config:  config,
	}
}

// Validate checks the document's structural rules. It does not evaluate
// any proofs.
func (s *Suite) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("suite name must not be empty")
	}
	if s.Version == "" {
		return fmt.Errorf("suite version must not be empty")
	}
	if s.SpecVersion < 1 {
		return fmt.Errorf("suite spec_version must be a positive integer")
	}
	if len(s.Tests) == 0 {
		return fmt.Errorf("suite must contain at least one test")
	}

	for i, test := range s.Tests {
		if err := test.validate(); err != nil {
			return fmt.Errorf("test %d: %w", i+1, err)
		}
	}
	return nil
}

func (t *Test) validate() error {
	if t.Description == "" {
		return fmt.Errorf("description must not be empty")
	}
	if t.Proof == "" {
		return fmt.Errorf("proof must not be empty")
	}
	if t.Expect != "pass" && t.Expect != "fail" {
		return fmt.Errorf("expect must be %q or %q, got %q", "pass", "fail", t.Expect)
	}
	if t.SpecVersion < 1 {
		return fmt.Errorf("spec_version must be a positive integer")
	}
	if t.App.ID == nil {
		return fmt.Errorf("app id must not be nil")
	}
	if t.App.Secret == "" {
		return fmt.Errorf("app secret must not be empty")
	}
	if t.App.Version < 1 {
		return fmt.Errorf("app version must be a positive integer")
	}
	return nil
}
