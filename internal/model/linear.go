package model

import (
	"fmt"
	"math"

	"github.com/yusufkecer/diabetes-prediction/internal/domain"
)

type LogisticRegression struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	Threshold    float64   `json:"threshold"`
}

func (lr *LogisticRegression) Predict(rows [][]float64) ([]float64, error) {
	labels := make([]float64, 0, len(rows))
	for _, row := range rows {
		if err := checkRow(row); err != nil {
			return nil, err
		}
		if lr.Probability(row) >= lr.Threshold {
			labels = append(labels, 1)
		} else {
			labels = append(labels, 0)
		}
	}
	return labels, nil
}

// Probability returns the positive-class probability for one row.
func (lr *LogisticRegression) Probability(row []float64) float64 {
	z := lr.Intercept
	for i, c := range lr.Coefficients {
		z += c * row[i]
	}
	return 1 / (1 + math.Exp(-z))
}

func (lr *LogisticRegression) validate() error {
	if len(lr.Coefficients) != len(domain.FeatureOrder) {
		return fmt.Errorf("%w: %d coefficients for %d features", ErrFeatureMismatch, len(lr.Coefficients), len(domain.FeatureOrder))
	}
	if lr.Threshold == 0 {
		lr.Threshold = 0.5
	}
	if lr.Threshold < 0 || lr.Threshold > 1 {
		return fmt.Errorf("threshold %v outside [0, 1]", lr.Threshold)
	}
	return nil
}

// Constant ignores its input. It stands in for a dummy classifier.
type Constant struct {
	Label float64 `json:"label"`
}

func (c *Constant) Predict(rows [][]float64) ([]float64, error) {
	labels := make([]float64, 0, len(rows))
	for _, row := range rows {
		if err := checkRow(row); err != nil {
			return nil, err
		}
		labels = append(labels, c.Label)
	}
	return labels, nil
}
