package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ArtifactShape records how the predictor was stored in the artifact.
type ArtifactShape int

const (
	// ShapeDirect is a predictor spec at the top level.
	ShapeDirect ArtifactShape = iota
	// ShapeKeyed is a mapping with a "model" entry.
	ShapeKeyed
	// ShapeSingleEntry is a mapping with exactly one entry under any key.
	ShapeSingleEntry
	// ShapeUnrecognized is any other mapping. Loading fails.
	ShapeUnrecognized
)

func (s ArtifactShape) String() string {
	switch s {
	case ShapeDirect:
		return "direct"
	case ShapeKeyed:
		return "keyed"
	case ShapeSingleEntry:
		return "single_entry"
	case ShapeUnrecognized:
		return "unrecognized"
	default:
		return fmt.Sprintf("ArtifactShape(%d)", int(s))
	}
}

type Artifact struct {
	Path      string
	Shape     ArtifactShape
	Type      string
	Metadata  Metadata
	Predictor Predictor
}

type specHeader struct {
	Type string `json:"type"`
	Metadata
}

// LoadArtifact reads the model file once. Every error it returns is fatal
// for the process and matches one of the Err* sentinels via errors.Is,
// except for plain I/O failures.
func LoadArtifact(path string) (*Artifact, error) {
	payload, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}

	doc, err := decodeDocument(path, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}

	shape, spec := classify(doc)
	switch shape {
	case ShapeDirect, ShapeKeyed, ShapeSingleEntry:
	case ShapeUnrecognized:
		return nil, fmt.Errorf("%w: %s has no \"model\" entry and %d entries", ErrModelNotFound, path, len(doc.(map[string]any)))
	default:
		return nil, fmt.Errorf("%w: unhandled shape %s", ErrMalformedArtifact, shape)
	}

	header, predictor, err := decodePredictor(spec)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Path:      path,
		Shape:     shape,
		Type:      header.Type,
		Metadata:  header.Metadata,
		Predictor: predictor,
	}, nil
}

func decodeDocument(path string, payload []byte) (any, error) {
	var doc any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(payload, &doc); err != nil {
			return nil, err
		}
		return stringKeys(doc), nil
	default:
		if err := json.Unmarshal(payload, &doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// stringKeys rewrites the map[interface{}]interface{} values yaml.v3
// produces for non-string keys so that every mapping is map[string]any.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			t[k] = stringKeys(inner)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, inner := range t {
			m[fmt.Sprint(k)] = stringKeys(inner)
		}
		return m
	case []any:
		for i, inner := range t {
			t[i] = stringKeys(inner)
		}
		return t
	default:
		return v
	}
}

// classify checks the "model" key first; a wrapper may carry its own
// "type" next to it.
func classify(doc any) (ArtifactShape, any) {
	m, ok := doc.(map[string]any)
	if !ok {
		// not a mapping; decodePredictor reports what it actually is
		return ShapeDirect, doc
	}
	if inner, ok := m["model"]; ok {
		return ShapeKeyed, inner
	}
	if isPredictorSpec(m) {
		return ShapeDirect, m
	}
	if len(m) == 1 {
		for _, inner := range m {
			return ShapeSingleEntry, inner
		}
	}
	return ShapeUnrecognized, nil
}

func isPredictorSpec(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, ok = m["type"].(string)
	return ok
}

func decodePredictor(spec any) (specHeader, Predictor, error) {
	var header specHeader
	if !isPredictorSpec(spec) {
		return header, nil, fmt.Errorf("%w: expected a predictor object with a \"type\" field, got %T", ErrMalformedArtifact, spec)
	}

	raw, err := json.Marshal(spec)
	if err != nil {
		return header, nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return header, nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
	}
	if err := header.Metadata.validate(); err != nil {
		return header, nil, err
	}

	var predictor Predictor
	switch header.Type {
	case TypeDecisionTree:
		var dt DecisionTree
		if err := json.Unmarshal(raw, &dt); err != nil {
			return header, nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
		}
		if err := dt.validate(); err != nil {
			return header, nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
		}
		predictor = &dt
	case TypeLogisticRegression:
		var lr LogisticRegression
		if err := json.Unmarshal(raw, &lr); err != nil {
			return header, nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
		}
		if err := lr.validate(); err != nil {
			if errors.Is(err, ErrFeatureMismatch) {
				return header, nil, err
			}
			return header, nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
		}
		predictor = &lr
	case TypeConstant:
		var c Constant
		if err := json.Unmarshal(raw, &c); err != nil {
			return header, nil, fmt.Errorf("%w: %v", ErrMalformedArtifact, err)
		}
		predictor = &c
	default:
		return header, nil, fmt.Errorf("%w: unsupported model type %q", ErrMalformedArtifact, header.Type)
	}
	return header, predictor, nil
}

// FatalMessage is the text shown to the operator when loading fails.
func FatalMessage(path string, err error) string {
	switch {
	case errors.Is(err, ErrArtifactNotFound):
		return fmt.Sprintf("❌ %s not found. Place it in the same folder as this app.", filepath.Base(path))
	case errors.Is(err, ErrModelNotFound):
		return "❌ Model not found in file. Please check your model file contents."
	case errors.Is(err, ErrFeatureMismatch):
		return fmt.Sprintf("❌ Model in %s was trained on different features: %v", filepath.Base(path), err)
	default:
		return fmt.Sprintf("❌ Failed to load model from %s: %v", filepath.Base(path), err)
	}
}
