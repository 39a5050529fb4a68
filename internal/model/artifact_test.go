package model

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treeSpec = `{
	"type": "decision_tree",
	"feature_names": ["glucose", "blood_pressure", "insulin", "bmi", "age"],
	"nodes": [
		{"feature_idx": 0, "threshold": 140, "left_child": 1, "right_child": 2, "class_label": 0, "is_leaf": false},
		{"feature_idx": -1, "left_child": -1, "right_child": -1, "class_label": 0, "is_leaf": true},
		{"feature_idx": -1, "left_child": -1, "right_child": -1, "class_label": 1, "is_leaf": true}
	]
}`

func writeArtifact(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadArtifactShapes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		shape   ArtifactShape
	}{
		{"Direct", treeSpec, ShapeDirect},
		{"Keyed", `{"model": ` + treeSpec + `, "scaler": null, "accuracy": 0.78}`, ShapeKeyed},
		{"SingleEntry", `{"classifier": ` + treeSpec + `}`, ShapeSingleEntry},
		{"KeyedWithWrapperType", `{"type": "sklearn_pipeline", "model": ` + treeSpec + `, "accuracy": 0.78}`, ShapeKeyed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeArtifact(t, "diabetes_model.json", tt.content)

			artifact, err := LoadArtifact(path)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, artifact.Shape)
			assert.Equal(t, TypeDecisionTree, artifact.Type)

			labels, err := artifact.Predictor.Predict([][]float64{{180, 70, 80, 25, 30}, {100, 70, 80, 25, 30}})
			require.NoError(t, err)
			assert.Equal(t, []float64{1, 0}, labels)
		})
	}
}

func TestLoadArtifactMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diabetes_model.json")

	_, err := LoadArtifact(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrArtifactNotFound))
	assert.Equal(t, "❌ diabetes_model.json not found. Place it in the same folder as this app.", FatalMessage(path, err))
}

func TestLoadArtifactUnrecognizedMapping(t *testing.T) {
	t.Run("TwoEntriesNoModelKey", func(t *testing.T) {
		path := writeArtifact(t, "diabetes_model.json", `{"clf": `+treeSpec+`, "scaler": {"mean": [1, 2]}}`)

		_, err := LoadArtifact(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrModelNotFound))
		assert.Contains(t, FatalMessage(path, err), "Model not found in file")
	})

	t.Run("Empty", func(t *testing.T) {
		path := writeArtifact(t, "diabetes_model.json", `{}`)

		_, err := LoadArtifact(path)
		assert.True(t, errors.Is(err, ErrModelNotFound))
	})
}

func TestLoadArtifactMalformed(t *testing.T) {
	tests := map[string]string{
		"NotJSON":         `not a model`,
		"Array":           `[1, 2, 3]`,
		"UnknownType":     `{"type": "random_forest"}`,
		"WrappedScalar":   `{"model": 42}`,
		"TreeWithoutNode": `{"type": "decision_tree", "nodes": []}`,
		"BadChildIndex":   `{"type": "decision_tree", "nodes": [{"feature_idx": 0, "threshold": 1, "left_child": 5, "right_child": 0}]}`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := writeArtifact(t, "diabetes_model.json", content)

			_, err := LoadArtifact(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedArtifact), "got %v", err)
		})
	}
}

func TestLoadArtifactFeatureMismatch(t *testing.T) {
	t.Run("Names", func(t *testing.T) {
		path := writeArtifact(t, "diabetes_model.json",
			`{"type": "constant", "label": 0, "feature_names": ["age", "bmi", "insulin", "blood_pressure", "glucose"]}`)

		_, err := LoadArtifact(path)
		assert.True(t, errors.Is(err, ErrFeatureMismatch))
	})

	t.Run("Count", func(t *testing.T) {
		path := writeArtifact(t, "diabetes_model.json", `{"type": "constant", "label": 0, "n_features": 8}`)

		_, err := LoadArtifact(path)
		assert.True(t, errors.Is(err, ErrFeatureMismatch))
	})

	t.Run("Coefficients", func(t *testing.T) {
		path := writeArtifact(t, "diabetes_model.json", `{"type": "logistic_regression", "coefficients": [0.1, 0.2], "intercept": 0}`)

		_, err := LoadArtifact(path)
		assert.True(t, errors.Is(err, ErrFeatureMismatch))
	})
}

func TestLoadArtifactYAML(t *testing.T) {
	content := `
model:
  type: logistic_regression
  n_features: 5
  coefficients: [0.035, -0.012, 0.001, 0.09, 0.03]
  intercept: -8.4
metrics:
  accuracy: 0.77
`
	path := writeArtifact(t, "diabetes_model.yaml", content)

	artifact, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, ShapeKeyed, artifact.Shape)
	assert.Equal(t, TypeLogisticRegression, artifact.Type)

	lr, ok := artifact.Predictor.(*LogisticRegression)
	require.True(t, ok)
	assert.Equal(t, 0.5, lr.Threshold)
}

func TestLoadArtifactYAMLNonStringKey(t *testing.T) {
	path := writeArtifact(t, "diabetes_model.yml", "1:\n  type: constant\n  label: 1\n")

	artifact, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, ShapeSingleEntry, artifact.Shape)

	labels, err := artifact.Predictor.Predict([][]float64{{100, 70, 80, 25, 30}})
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, labels)
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "direct", ShapeDirect.String())
	assert.Equal(t, "keyed", ShapeKeyed.String())
	assert.Equal(t, "single_entry", ShapeSingleEntry.String())
	assert.Equal(t, "unrecognized", ShapeUnrecognized.String())
}
