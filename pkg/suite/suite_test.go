package suite

import (
	"encoding/json"
	"strings"
	"testing"
)

const minimalSuiteJSON = `{
  "name": "example",
  "version": "1.0.0",
  "spec_version": 4,
  "tests": [
    {
      "description": "placeholder",
      "app": {"id": "app", "secret": "secret", "version": 1},
      "proof": "cHJvb2Y",
      "expect": "fail",
      "required": true,
      "spec_version": 1
    }
  ]
}`

func TestSuiteDecode(t *testing.T) {
	var s Suite
	if err := json.Unmarshal([]byte(minimalSuiteJSON), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Name != "example" || s.SpecVersion != 4 {
		t.Errorf("decoded header = %q/%d, want example/4", s.Name, s.SpecVersion)
	}
	if len(s.Tests) != 1 {
		t.Fatalf("decoded %d tests, want 1", len(s.Tests))
	}
	if s.Tests[0].App.Secret != "secret" {
		t.Errorf("decoded secret = %q", s.Tests[0].App.Secret)
	}
}

func TestSuiteDecodeIntegerID(t *testing.T) {
	doc := strings.Replace(minimalSuiteJSON, `"id": "app"`, `"id": 42`, 1)
	var s Suite
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input := s.Tests[0].App.Input()
	if id, ok := input.ID.(float64); !ok || id != 42 {
		t.Errorf("input ID = %v (%T), want 42", input.ID, input.ID)
	}
}

func TestSuiteValidate(t *testing.T) {
	base := func() *Suite {
		var s Suite
		if err := json.Unmarshal([]byte(minimalSuiteJSON), &s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return &s
	}

	tests := []struct {
		name   string
		mutate func(*Suite)
	}{
		{name: "empty name", mutate: func(s *Suite) { s.Name = "" }},
		{name: "empty version", mutate: func(s *Suite) { s.Version = "" }},
		{name: "zero spec_version", mutate: func(s *Suite) { s.SpecVersion = 0 }},
		{name: "no tests", mutate: func(s *Suite) { s.Tests = nil }},
		{name: "empty description", mutate: func(s *Suite) { s.Tests[0].Description = "" }},
		{name: "empty proof", mutate: func(s *Suite) { s.Tests[0].Proof = "" }},
		{name: "bad expect", mutate: func(s *Suite) { s.Tests[0].Expect = "maybe" }},
		{name: "zero test spec_version", mutate: func(s *Suite) { s.Tests[0].SpecVersion = 0 }},
		{name: "nil app id", mutate: func(s *Suite) { s.Tests[0].App.ID = nil }},
		{name: "empty app secret", mutate: func(s *Suite) { s.Tests[0].App.Secret = "" }},
		{name: "zero app version", mutate: func(s *Suite) { s.Tests[0].App.Version = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			if err := s.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
