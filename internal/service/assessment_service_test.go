package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yusufkecer/diabetes-prediction/internal/domain"
)

type stubPredictor struct {
	labels []float64
	err    error
	panics bool
	rows   [][]float64
}

func (p *stubPredictor) Predict(rows [][]float64) ([]float64, error) {
	p.rows = rows
	if p.panics {
		panic("index out of range")
	}
	return p.labels, p.err
}

func newTestService(p *stubPredictor) *AssessmentService {
	return NewAssessmentService(p, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAssessPositiveLabel(t *testing.T) {
	inputs := []domain.HealthInputs{
		domain.DefaultHealthInputs(),
		{Glucose: 0, BloodPressure: 0, Insulin: 0, BMI: 0, Age: 1},
		{Glucose: 300, BloodPressure: 200, Insulin: 900, BMI: 70, Age: 120},
	}

	for _, in := range inputs {
		svc := newTestService(&stubPredictor{labels: []float64{1}})

		report, err := svc.Assess(context.Background(), in)
		require.NoError(t, err)
		assert.True(t, report.Diabetic)
		assert.Equal(t, domain.DiagnosisPositive, report.Diagnosis)
		assert.Equal(t, domain.Precautions(), report.Advice)
		assert.Len(t, report.Advice, 5)
	}
}

func TestAssessOtherLabels(t *testing.T) {
	for _, label := range []float64{0, -1, 0.0, 0.5, 2} {
		svc := newTestService(&stubPredictor{labels: []float64{label}})

		report, err := svc.Assess(context.Background(), domain.DefaultHealthInputs())
		require.NoError(t, err)
		assert.False(t, report.Diabetic, "label=%v", label)
		assert.Equal(t, domain.DiagnosisNegative, report.Diagnosis)
		assert.Equal(t, domain.MaintenanceTips(), report.Advice)
	}
}

func TestAssessDefaultsReportOverweight(t *testing.T) {
	p := &stubPredictor{labels: []float64{1}}
	svc := newTestService(p)

	report, err := svc.Assess(context.Background(), domain.DefaultHealthInputs())
	require.NoError(t, err)
	assert.Equal(t, domain.DiagnosisPositive, report.Diagnosis)
	assert.Equal(t, domain.BMIOverweight, report.BMI.Category)
	assert.Equal(t, "Your BMI is 25.0 → Overweight", report.BMI.Message)

	require.Len(t, p.rows, 1)
	assert.Equal(t, []float64{100, 70, 80, 25.0, 30}, p.rows[0])
}

func TestAssessUsesFirstLabel(t *testing.T) {
	svc := newTestService(&stubPredictor{labels: []float64{0, 1}})

	report, err := svc.Assess(context.Background(), domain.DefaultHealthInputs())
	require.NoError(t, err)
	assert.False(t, report.Diabetic)
}

func TestAssessErrors(t *testing.T) {
	t.Run("PredictorError", func(t *testing.T) {
		boom := errors.New("shape mismatch")
		svc := newTestService(&stubPredictor{err: boom})

		_, err := svc.Assess(context.Background(), domain.DefaultHealthInputs())
		assert.True(t, errors.Is(err, boom))
	})

	t.Run("PredictorPanic", func(t *testing.T) {
		svc := newTestService(&stubPredictor{panics: true})

		_, err := svc.Assess(context.Background(), domain.DefaultHealthInputs())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "index out of range")
	})

	t.Run("EmptyLabels", func(t *testing.T) {
		svc := newTestService(&stubPredictor{labels: []float64{}})

		_, err := svc.Assess(context.Background(), domain.DefaultHealthInputs())
		assert.True(t, errors.Is(err, ErrEmptyPrediction))
	})

	t.Run("OutOfRange", func(t *testing.T) {
		p := &stubPredictor{labels: []float64{1}}
		svc := newTestService(p)
		in := domain.DefaultHealthInputs()
		in.Glucose = 400

		_, err := svc.Assess(context.Background(), in)
		assert.True(t, errors.Is(err, domain.ErrInputOutOfRange))
		assert.Nil(t, p.rows)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		svc := newTestService(&stubPredictor{labels: []float64{1}})

		_, err := svc.Assess(ctx, domain.DefaultHealthInputs())
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestAssessRecoversForNextSubmission(t *testing.T) {
	p := &stubPredictor{panics: true}
	svc := newTestService(p)

	_, err := svc.Assess(context.Background(), domain.DefaultHealthInputs())
	require.Error(t, err)

	p.panics = false
	p.labels = []float64{0}
	report, err := svc.Assess(context.Background(), domain.DefaultHealthInputs())
	require.NoError(t, err)
	assert.Equal(t, domain.DiagnosisNegative, report.Diagnosis)
}
