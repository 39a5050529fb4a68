package domain

import (
	"errors"
	"fmt"
	"math"
)

// FeatureOrder is the column order the predictor was trained on. Vector is
// the only place that assembles features and it follows this order.
var FeatureOrder = []string{"glucose", "blood_pressure", "insulin", "bmi", "age"}

var ErrInputOutOfRange = errors.New("input out of range")

type HealthInputs struct {
	Glucose       int     `json:"glucose"`
	BloodPressure int     `json:"blood_pressure"`
	Insulin       int     `json:"insulin"`
	BMI           float64 `json:"bmi"`
	Age           int     `json:"age"`
}

type Bounds struct {
	Min float64
	Max float64
}

var (
	GlucoseBounds       = Bounds{Min: 0, Max: 300}
	BloodPressureBounds = Bounds{Min: 0, Max: 200}
	InsulinBounds       = Bounds{Min: 0, Max: 900}
	BMIBounds           = Bounds{Min: 0.0, Max: 70.0}
	AgeBounds           = Bounds{Min: 1, Max: 120}
)

func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

func DefaultHealthInputs() HealthInputs {
	return HealthInputs{
		Glucose:       100,
		BloodPressure: 70,
		Insulin:       80,
		BMI:           25.0,
		Age:           30,
	}
}

// Normalize rounds BMI to the single decimal the form collects.
func (h HealthInputs) Normalize() HealthInputs {
	h.BMI = math.Round(h.BMI*10) / 10
	return h
}

func (h HealthInputs) Validate() error {
	checks := []struct {
		name   string
		value  float64
		bounds Bounds
	}{
		{"glucose", float64(h.Glucose), GlucoseBounds},
		{"blood_pressure", float64(h.BloodPressure), BloodPressureBounds},
		{"insulin", float64(h.Insulin), InsulinBounds},
		{"bmi", h.BMI, BMIBounds},
		{"age", float64(h.Age), AgeBounds},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || !c.bounds.Contains(c.value) {
			return fmt.Errorf("%w: %s must be between %g and %g", ErrInputOutOfRange, c.name, c.bounds.Min, c.bounds.Max)
		}
	}
	return nil
}

func (h HealthInputs) Vector() []float64 {
	return []float64{
		float64(h.Glucose),
		float64(h.BloodPressure),
		float64(h.Insulin),
		h.BMI,
		float64(h.Age),
	}
}
