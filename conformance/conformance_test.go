package conformance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScenarios drives the YAML-described scenarios the same way the
// teacher's conformance_test.go drives LoadAllTests/RunAll: load every
// suite under testdata, then run each case through the registry-backed
// Runner and fail loudly on the first mismatch.
func TestScenarios(t *testing.T) {
	suites, err := LoadAllSuites("testdata")
	require.NoError(t, err)
	require.NotEmpty(t, suites)

	r := NewRunner()
	for _, ls := range suites {
		ls := ls
		for _, tc := range ls.Suite.Cases {
			tc := tc
			t.Run(tc.Name, func(t *testing.T) {
				if tc.IsSkipped() {
					t.Skip(tc.Skip)
				}
				require.NoError(t, r.Run(tc))
			})
		}
	}
}

func TestRunAllReportsNoFailures(t *testing.T) {
	suites, err := LoadAllSuites("testdata")
	require.NoError(t, err)

	errs := RunAll(suites)
	require.Empty(t, errs)
}
