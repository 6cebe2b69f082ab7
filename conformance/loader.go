package conformance

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadedSuite pairs a parsed Suite with the file path it came from, the
// same shape as the teacher's LoadedTest.
type LoadedSuite struct {
	Path  string
	Suite Suite
}

// LoadSuite reads and parses one YAML conformance file.
func LoadSuite(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("conformance: reading %s: %w", path, err)
	}
	var s Suite
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Suite{}, fmt.Errorf("conformance: parsing %s: %w", path, err)
	}
	return s, nil
}

// LoadAllSuites walks dir for *.yaml files and parses each one, the
// conformance-package analogue of the teacher's LoadAllTests. Files are
// returned in a stable, sorted order so test output doesn't depend on
// the filesystem's directory-listing order.
func LoadAllSuites(dir string) ([]LoadedSuite, error) {
	var paths []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("conformance: walking %s: %w", dir, err)
	}
	sort.Strings(paths)

	out := make([]LoadedSuite, 0, len(paths))
	for _, p := range paths {
		suite, err := LoadSuite(p)
		if err != nil {
			return nil, err
		}
		out = append(out, LoadedSuite{Path: p, Suite: suite})
	}
	return out, nil
}
