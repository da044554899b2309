// ABOUTME: Tests that every benchmark scenario passes its own expectations
// ABOUTME: Also checks the JSON export shape

package scenarios

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_AllPass(t *testing.T) {
	runner := NewRunner(1, 42, nil)

	for _, s := range All() {
		t.Run(s.ID, func(t *testing.T) {
			result, err := runner.Run(s)
			require.NoError(t, err)
			assert.True(t, result.Passed(), "failures: %v", result.Failures)
			assert.Positive(t, result.OracleQueries)
		})
	}
}

func TestScenario_QueryCountIsPerWalk(t *testing.T) {
	s := GetStraightRoad()
	s.Tier = nil

	once, err := NewRunner(1, 1, nil).Run(s)
	require.NoError(t, err)
	many, err := NewRunner(3, 1, nil).Run(s)
	require.NoError(t, err)

	assert.Equal(t, once.OracleQueries, many.OracleQueries)
	assert.Equal(t, 3, many.Iterations)
}

func TestScenario_FailsOnWrongExpectation(t *testing.T) {
	s := GetDeadEnd()
	s.Expect.Aborted = false

	result, err := NewRunner(1, 1, nil).Run(s)
	require.NoError(t, err)
	assert.False(t, result.Passed())
	assert.NotEmpty(t, result.Failures)
}

func TestRunAll_KeepsOrder(t *testing.T) {
	all := All()
	results, err := NewRunner(2, 3, nil).RunAll(context.Background(), all, 3)
	require.NoError(t, err)
	require.Len(t, results, len(all))
	for i, s := range all {
		assert.Equal(t, s.ID, results[i].ID)
		assert.True(t, results[i].Passed(), "%s: %v", s.ID, results[i].Failures)
	}
}

func TestRunAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(1, 1, nil).RunAll(ctx, All(), 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestByID(t *testing.T) {
	s, ok := ByID("clipping")
	require.True(t, ok)
	assert.Equal(t, "Multi-Lane Clipping", s.Name)

	_, ok = ByID("missing")
	assert.False(t, ok)
}

func TestExportResults(t *testing.T) {
	results, err := NewRunner(1, 7, nil).RunAll(context.Background(), []Scenario{GetSparseRoad(), GetDeadEnd()}, 2)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "results.json")
	require.NoError(t, ExportResults(results, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var summary struct {
		Total   int      `json:"total_tests"`
		Passed  int      `json:"passed"`
		Results []Result `json:"results"`
	}
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.Passed)
	assert.Len(t, summary.Results, 2)
}
