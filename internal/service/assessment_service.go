package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yusufkecer/diabetes-prediction/internal/domain"
	"github.com/yusufkecer/diabetes-prediction/internal/model"
)

var ErrEmptyPrediction = errors.New("predictor returned no labels")

type AssessmentService struct {
	predictor model.Predictor
	logger    *slog.Logger
}

func NewAssessmentService(predictor model.Predictor, logger *slog.Logger) *AssessmentService {
	return &AssessmentService{predictor: predictor, logger: logger}
}

// Assess runs one submission. Errors are scoped to this call; the
// predictor is never modified, so the next call starts clean.
func (s *AssessmentService) Assess(ctx context.Context, in domain.HealthInputs) (*domain.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	label, err := s.predict(in.Vector())
	if err != nil {
		return nil, err
	}

	report := domain.NewReport(label, in.BMI)
	s.logger.DebugContext(ctx, "assessment complete",
		"label", label,
		"diabetic", report.Diabetic,
		"bmi_category", report.BMI.Category,
	)
	return report, nil
}

func (s *AssessmentService) predict(vector []float64) (label float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("predictor panicked: %v", r)
		}
	}()

	labels, err := s.predictor.Predict([][]float64{vector})
	if err != nil {
		return 0, err
	}
	if len(labels) == 0 {
		return 0, ErrEmptyPrediction
	}
	return labels[0], nil
}
