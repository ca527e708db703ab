package persistence

import (
	"path/filepath"
	"testing"

	"github.com/felixbrock/patentace/internal/domain"
	"github.com/felixbrock/patentace/internal/playbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRepoRoundTrip(t *testing.T) {
	repo := SnapshotRepo{Path: filepath.Join(t.TempDir(), "playbook.json")}
	assert.False(t, repo.Exists())

	p := playbook.New()
	id := p.Add("feature_identification", "compare limitations one by one")
	p.Add("common_errors", "watch for missing features")
	require.NoError(t, p.Tag(id, true))

	require.NoError(t, repo.Save(p))
	assert.True(t, repo.Exists())

	restored, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, p.Bullets(), restored.Bullets())
	assert.Equal(t, p.Render(), restored.Render())
}

func TestSnapshotRepoLoadMissingFile(t *testing.T) {
	repo := SnapshotRepo{Path: filepath.Join(t.TempDir(), "absent.json")}

	_, err := repo.Load()
	require.Error(t, err)
}

func TestResultRepoAppendAndRead(t *testing.T) {
	repo := ResultRepo{Path: filepath.Join(t.TempDir(), "results.csv")}

	first := domain.AdaptationResult{
		Id:              "r1",
		RunId:           "run-a",
		Epoch:           1,
		Sample:          domain.Sample{GroundTruth: "X"},
		GeneratorOutput: domain.GeneratorOutput{FinalAnswer: "X"},
		EnvironmentResult: domain.EnvironmentResult{
			Metrics: map[string]float64{"accuracy": 1},
		},
	}
	second := first
	second.Id = "r2"
	second.RunId = "run-b"
	second.Skipped = true

	require.NoError(t, repo.Append(first))
	require.NoError(t, repo.Append(second))

	results, err := repo.Read("run-a")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "r1", results[0].Id)
	assert.Equal(t, "X", results[0].GeneratorOutput.FinalAnswer)
	assert.Equal(t, 1.0, results[0].EnvironmentResult.Metrics["accuracy"])
	assert.False(t, results[0].Skipped)

	results, err = repo.Read("run-b")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Skipped)
}
