package domain

type PredictRequest struct {
	Glucose       *int     `json:"glucose"`
	BloodPressure *int     `json:"blood_pressure"`
	Insulin       *int     `json:"insulin"`
	BMI           *float64 `json:"bmi"`
	Age           *int     `json:"age"`
}

func (r PredictRequest) Complete() bool {
	return r.Glucose != nil && r.BloodPressure != nil && r.Insulin != nil && r.BMI != nil && r.Age != nil
}

func (r PredictRequest) Inputs() HealthInputs {
	return HealthInputs{
		Glucose:       *r.Glucose,
		BloodPressure: *r.BloodPressure,
		Insulin:       *r.Insulin,
		BMI:           *r.BMI,
		Age:           *r.Age,
	}
}

type PredictResponse struct {
	Inputs HealthInputs `json:"inputs"`
	Report *Report      `json:"report"`
}

type ModelInfo struct {
	Type         string   `json:"type"`
	Shape        string   `json:"artifact_shape"`
	Path         string   `json:"path"`
	FeatureOrder []string `json:"feature_order"`
}
