package handler

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/yusufkecer/diabetes-prediction/internal/domain"
	"github.com/yusufkecer/diabetes-prediction/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const predictionErrorPrefix = "⚠ Error making prediction: "

type Assessor interface {
	Assess(ctx context.Context, in domain.HealthInputs) (*domain.Report, error)
}

type field struct {
	Name  string
	Label string
	Min   string
	Max   string
	Step  string
}

// fields are listed in domain.FeatureOrder.
var fields = []field{
	{Name: "glucose", Label: "Glucose Level (mg/dL)", Min: "0", Max: "300", Step: "1"},
	{Name: "blood_pressure", Label: "Blood Pressure (mmHg)", Min: "0", Max: "200", Step: "1"},
	{Name: "insulin", Label: "Insulin Level (µU/mL)", Min: "0", Max: "900", Step: "1"},
	{Name: "bmi", Label: "Body Mass Index (BMI)", Min: "0.0", Max: "70.0", Step: "0.1"},
	{Name: "age", Label: "Age (years)", Min: "1", Max: "120", Step: "1"},
}

type fieldView struct {
	field
	Value string
}

type pageData struct {
	Fields []fieldView
	Token  string
	Report *domain.Report
	Error  string
}

type FormHandler struct {
	assessor Assessor
	tokens   *middleware.FormTokens
	logger   *slog.Logger
}

func NewFormHandler(assessor Assessor, tokens *middleware.FormTokens, logger *slog.Logger) *FormHandler {
	return &FormHandler{assessor: assessor, tokens: tokens, logger: logger}
}

func (h *FormHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, inputValues(domain.DefaultHealthInputs()), nil, "")
}

func (h *FormHandler) Predict(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, inputValues(domain.DefaultHealthInputs()), nil, "invalid form submission")
		return
	}
	values := submittedValues(r)

	if err := h.tokens.Verify(r.PostFormValue("form_token"), sessionFromCookie(r)); err != nil {
		h.render(w, r, http.StatusForbidden, values, nil, "This form has expired or was opened in another browser session. Your values are kept; please press Predict again.")
		return
	}

	in, err := parseInputs(values)
	if err != nil {
		h.render(w, r, http.StatusUnprocessableEntity, values, nil, predictionErrorPrefix+err.Error())
		return
	}

	report, err := h.assessor.Assess(r.Context(), in)
	if err != nil {
		h.logger.WarnContext(r.Context(), "prediction failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
		h.render(w, r, http.StatusUnprocessableEntity, values, nil, predictionErrorPrefix+err.Error())
		return
	}

	h.render(w, r, http.StatusOK, values, report, "")
}

func (h *FormHandler) render(w http.ResponseWriter, r *http.Request, status int, values map[string]string, report *domain.Report, message string) {
	token, err := h.tokens.Issue(ensureSession(w, r))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to issue form token", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := pageData{Token: token, Report: report, Error: message}
	for _, f := range fields {
		data.Fields = append(data.Fields, fieldView{field: f, Value: values[f.Name]})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to render page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func sessionFromCookie(r *http.Request) string {
	c, err := r.Cookie(middleware.FormSessionCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// ensureSession returns the browser's form session, setting a new cookie
// when it has none.
func ensureSession(w http.ResponseWriter, r *http.Request) string {
	if session := sessionFromCookie(r); session != "" {
		return session
	}
	session := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.FormSessionCookie,
		Value:    session,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	return session
}

func inputValues(in domain.HealthInputs) map[string]string {
	return map[string]string{
		"glucose":        strconv.Itoa(in.Glucose),
		"blood_pressure": strconv.Itoa(in.BloodPressure),
		"insulin":        strconv.Itoa(in.Insulin),
		"bmi":            strconv.FormatFloat(in.BMI, 'f', 1, 64),
		"age":            strconv.Itoa(in.Age),
	}
}

func submittedValues(r *http.Request) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = strings.TrimSpace(r.PostFormValue(f.Name))
	}
	return values
}

func parseInputs(values map[string]string) (domain.HealthInputs, error) {
	var in domain.HealthInputs
	var err error

	ints := []struct {
		name string
		dst  *int
	}{
		{"glucose", &in.Glucose},
		{"blood_pressure", &in.BloodPressure},
		{"insulin", &in.Insulin},
		{"age", &in.Age},
	}
	for _, f := range ints {
		if *f.dst, err = parseInt(f.name, values[f.name]); err != nil {
			return in, err
		}
	}

	raw := values["bmi"]
	if raw == "" {
		return in, errors.New("bmi is required")
	}
	if in.BMI, err = strconv.ParseFloat(raw, 64); err != nil {
		return in, fmt.Errorf("bmi must be a number, got %q", raw)
	}
	return in, nil
}

func parseInt(name, raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s is required", name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number, got %q", name, raw)
	}
	return n, nil
}
