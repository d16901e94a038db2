package model_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/land-risk-service/internal/model"
	"github.com/couchcryptid/land-risk-service/internal/model/modeltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArtifact(t *testing.T, a *model.Artifact) string {
	t.Helper()
	data, err := json.Marshal(a)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "risk_model.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadArtifact(t *testing.T) {
	t.Run("round-trips the fixture", func(t *testing.T) {
		path := writeArtifact(t, modeltest.Artifact())

		a, err := model.LoadArtifact(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"High", "Low", "Medium"}, a.Classes)
		assert.Len(t, a.Forest.Trees, 3)
		assert.NotNil(t, a.Secondary)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := model.LoadArtifact(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))
		_, err := model.LoadArtifact(path)
		assert.Error(t, err)
	})

	t.Run("invalid artifact", func(t *testing.T) {
		a := modeltest.Artifact()
		a.Forest.Trees = nil
		_, err := model.LoadArtifact(writeArtifact(t, a))
		assert.ErrorContains(t, err, "no trees")
	})
}

func TestArtifactValidate(t *testing.T) {
	t.Run("fixture is valid", func(t *testing.T) {
		assert.NoError(t, modeltest.Artifact().Validate())
	})

	t.Run("too few classes", func(t *testing.T) {
		a := modeltest.Artifact()
		a.Classes = []string{"High"}
		assert.ErrorContains(t, a.Validate(), "classes")
	})

	t.Run("zero scale", func(t *testing.T) {
		a := modeltest.Artifact()
		a.Encoder.Numeric[0].Scale = 0
		assert.ErrorContains(t, a.Validate(), "zero scale")
	})

	t.Run("importances length mismatch", func(t *testing.T) {
		a := modeltest.Artifact()
		a.Importances = []float64{1.0}
		assert.ErrorContains(t, a.Validate(), "importances")
	})

	t.Run("tree splits past encoder width", func(t *testing.T) {
		a := modeltest.Artifact()
		a.Forest.Trees[0].Feature[0] = 99
		assert.ErrorContains(t, a.Validate(), "column")
	})

	t.Run("invalid secondary tree", func(t *testing.T) {
		a := modeltest.Artifact()
		a.Secondary.Feature[0] = 99
		assert.ErrorContains(t, a.Validate(), "secondary")
	})
}
