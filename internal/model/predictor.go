// Package model loads the serialized classifier and evaluates it.
//
// Training is done elsewhere. The types here only evaluate an artifact
// that was exported into one of the supported formats.
package model

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yusufkecer/diabetes-prediction/internal/domain"
)

// Predictor maps feature rows to one class label per row. Rows follow
// domain.FeatureOrder.
type Predictor interface {
	Predict(rows [][]float64) ([]float64, error)
}

var (
	ErrArtifactNotFound  = errors.New("model artifact not found")
	ErrModelNotFound     = errors.New("model not found in artifact")
	ErrMalformedArtifact = errors.New("malformed model artifact")
	ErrFeatureMismatch   = errors.New("model features do not match input order")
	ErrRowLength         = errors.New("feature row has wrong length")
)

const (
	TypeDecisionTree       = "decision_tree"
	TypeLogisticRegression = "logistic_regression"
	TypeConstant           = "constant"
)

// Metadata is optional on every predictor spec. When present it has to
// agree with domain.FeatureOrder.
type Metadata struct {
	FeatureNames []string `json:"feature_names,omitempty"`
	NFeatures    int      `json:"n_features,omitempty"`
}

func (m Metadata) validate() error {
	if m.NFeatures != 0 && m.NFeatures != len(domain.FeatureOrder) {
		return fmt.Errorf("%w: expects %d features, inputs have %d", ErrFeatureMismatch, m.NFeatures, len(domain.FeatureOrder))
	}
	if len(m.FeatureNames) != 0 && !slices.Equal(m.FeatureNames, domain.FeatureOrder) {
		return fmt.Errorf("%w: trained on %v, inputs are %v", ErrFeatureMismatch, m.FeatureNames, domain.FeatureOrder)
	}
	return nil
}

func checkRow(row []float64) error {
	if len(row) != len(domain.FeatureOrder) {
		return fmt.Errorf("%w: got %d values, want %d", ErrRowLength, len(row), len(domain.FeatureOrder))
	}
	return nil
}
