package domain

import "fmt"

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal weight"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

// CategorizeBMI evaluates the ranges in order and the first match wins.
// Values the form cannot produce (24.9 < bmi < 25, 29.9 < bmi < 30) fall
// through to Obese, same as any bmi >= 30.
func CategorizeBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi >= 18.5 && bmi <= 24.9:
		return BMINormal
	case bmi >= 25 && bmi <= 29.9:
		return BMIOverweight
	default:
		return BMIObese
	}
}

func (c BMICategory) Level() Level {
	switch c {
	case BMIUnderweight:
		return LevelInfo
	case BMINormal:
		return LevelSuccess
	case BMIOverweight:
		return LevelWarning
	default:
		return LevelError
	}
}

type BMIResult struct {
	Value    float64     `json:"value"`
	Category BMICategory `json:"category"`
	Level    Level       `json:"level"`
	Message  string      `json:"message"`
}

func NewBMIResult(bmi float64) BMIResult {
	category := CategorizeBMI(bmi)
	return BMIResult{
		Value:    bmi,
		Category: category,
		Level:    category.Level(),
		Message:  fmt.Sprintf("Your BMI is %.1f → %s", bmi, category),
	}
}

const (
	DiagnosisPositive = "🚨 You have diabetes."
	DiagnosisNegative = "✅ You do not have diabetes."

	PrecautionsTitle = "🛡 Precautions & Recommendations"
	MaintenanceTitle = "💡 Health Maintenance Tips"
)

func Precautions() []string {
	return []string{
		"Follow a low-sugar, balanced diet.",
		"Engage in regular exercise (30 min/day).",
		"Monitor blood sugar levels regularly.",
		"Consult a doctor/endocrinologist for medication if needed.",
		"Avoid smoking & limit alcohol consumption.",
	}
}

func MaintenanceTips() []string {
	return []string{
		"Maintain a healthy diet with vegetables and fruits.",
		"Stay physically active.",
		"Get annual check-ups for early detection.",
		"Maintain a healthy weight & BMI.",
	}
}

type Report struct {
	Label       float64   `json:"label"`
	Diabetic    bool      `json:"diabetic"`
	Diagnosis   string    `json:"diagnosis"`
	AdviceTitle string    `json:"advice_title"`
	Advice      []string  `json:"advice"`
	BMI         BMIResult `json:"bmi"`
}

// NewReport branches on label == 1 exactly. Any other label, including
// 0.0, -1 or 0.5, gets the maintenance tips.
func NewReport(label float64, bmi float64) *Report {
	r := &Report{
		Label: label,
		BMI:   NewBMIResult(bmi),
	}
	if label == 1 {
		r.Diabetic = true
		r.Diagnosis = DiagnosisPositive
		r.AdviceTitle = PrecautionsTitle
		r.Advice = Precautions()
	} else {
		r.Diagnosis = DiagnosisNegative
		r.AdviceTitle = MaintenanceTitle
		r.Advice = MaintenanceTips()
	}
	return r
}
