package suite

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// Load reads suite documents from the given paths, in order. A path
// naming a directory contributes every *.json file directly inside it,
// sorted by name.
func Load(paths []string) ([]*Suite, error) {
	var suites []*Suite
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", path, err)
		}

		if !info.IsDir() {
			s, err := LoadFile(path)
			if err != nil {
				return nil, err
			}
			suites = append(suites, s)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(path, "*.json"))
		if err != nil {
			return nil, fmt.Errorf("cannot glob %s: %w", path, err)
		}
		sort.Strings(matches)
		for _, match := range matches {
			s, err := LoadFile(match)
			if err != nil {
				return nil, err
			}
			suites = append(suites, s)
		}
	}
	return suites, nil
}

// LoadFile reads and validates a single suite document.
func LoadFile(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, path)
}

// Read parses and validates a suite document from r. The name appears in
// error messages only.
func Read(r io.Reader, name string) (*Suite, error) {
	var s Suite
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("%s: invalid suite document: %w", name, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &s, nil
}
