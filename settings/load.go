package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPackageDefaults reads a YAML configuration file describing the
// package-level interpreter defaults. Mirrors the teacher's
// conformance.loadTestFile: os.ReadFile followed by yaml.Unmarshal into
// a tagged struct, with the read/parse errors wrapped rather than
// swallowed.
func LoadPackageDefaults(path string) (PackageDefaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PackageDefaults{}, fmt.Errorf("settings: reading %s: %w", path, err)
	}

	defaults := DefaultPackageDefaults()
	if err := yaml.Unmarshal(data, &defaults); err != nil {
		return PackageDefaults{}, fmt.Errorf("settings: parsing %s: %w", path, err)
	}
	return defaults, nil
}
