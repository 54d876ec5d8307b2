package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"yard-staffing-api/metrics"
)

const (
	// MinHeadcount replaces negative predictions. Values 0..4 are left alone.
	MinHeadcount = 5

	highMovementThreshold     = 40
	moderateMovementThreshold = 25

	staffingModelName    = "Yard staffing regression"
	staffingModelVersion = "1.0"
)

var (
	ErrPredictionUnavailable = errors.New("prediction unavailable")
	ErrModelNotTrained       = errors.New("staffing model not trained")
)

// StaffingSample is one observed headcount for a day/hour/month slot.
type StaffingSample struct {
	DayOfWeek int
	Hour      int
	Month     int
	Headcount int
}

// DefaultStaffingSamples: Sunday..Saturday at 08h, 12h and 18h in January.
var DefaultStaffingSamples = []StaffingSample{
	{DayOfWeek: 1, Hour: 8, Month: 1, Headcount: 25},
	{DayOfWeek: 1, Hour: 12, Month: 1, Headcount: 40},
	{DayOfWeek: 1, Hour: 18, Month: 1, Headcount: 30},

	{DayOfWeek: 2, Hour: 8, Month: 1, Headcount: 28},
	{DayOfWeek: 2, Hour: 12, Month: 1, Headcount: 42},
	{DayOfWeek: 2, Hour: 18, Month: 1, Headcount: 32},

	{DayOfWeek: 3, Hour: 8, Month: 1, Headcount: 30},
	{DayOfWeek: 3, Hour: 12, Month: 1, Headcount: 45},
	{DayOfWeek: 3, Hour: 18, Month: 1, Headcount: 35},

	{DayOfWeek: 4, Hour: 8, Month: 1, Headcount: 27},
	{DayOfWeek: 4, Hour: 12, Month: 1, Headcount: 43},
	{DayOfWeek: 4, Hour: 18, Month: 1, Headcount: 33},

	{DayOfWeek: 5, Hour: 8, Month: 1, Headcount: 32},
	{DayOfWeek: 5, Hour: 12, Month: 1, Headcount: 48},
	{DayOfWeek: 5, Hour: 18, Month: 1, Headcount: 38},

	{DayOfWeek: 6, Hour: 8, Month: 1, Headcount: 15},
	{DayOfWeek: 6, Hour: 12, Month: 1, Headcount: 25},
	{DayOfWeek: 6, Hour: 18, Month: 1, Headcount: 18},

	{DayOfWeek: 0, Hour: 8, Month: 1, Headcount: 10},
	{DayOfWeek: 0, Hour: 12, Month: 1, Headcount: 15},
	{DayOfWeek: 0, Hour: 18, Month: 1, Headcount: 12},
}

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type StaffingRequest struct {
	DayOfWeek int `json:"dayOfWeek"`
	Hour      int `json:"hour"`
	Month     int `json:"month"`
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks the request ranges. Predict assumes it has been called.
func (r StaffingRequest) Validate() error {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return &ValidationError{Field: "dayOfWeek", Message: "day of week must be between 0 (Sunday) and 6 (Saturday)"}
	}
	if r.Hour < 0 || r.Hour > 23 {
		return &ValidationError{Field: "hour", Message: "hour must be between 0 and 23"}
	}
	if r.Month < 1 || r.Month > 12 {
		return &ValidationError{Field: "month", Message: "month must be between 1 and 12"}
	}
	return nil
}

type StaffingPrediction struct {
	PredictedHeadcount int    `json:"predictedHeadcount"`
	Period             string `json:"period"`
	Recommendation     string `json:"recommendation"`
}

// StaffingModel is a fitted linear model over (day, hour, month). It is never
// mutated after TrainStaffingModel returns, so Predict is safe for concurrent use.
type StaffingModel struct {
	intercept float64
	coef      [3]float64
	lambda    float64
	samples   int
	trainedAt time.Time
}

// TrainStaffingModel fits a ridge regression with an unpenalised intercept by
// solving (XᵀX + λD)β = Xᵀy. The month column is constant in the default
// samples, so lambda must be positive for the system to be solvable.
func TrainStaffingModel(samples []StaffingSample, lambda float64) (*StaffingModel, error) {
	if len(samples) == 0 {
		return nil, errors.New("train staffing model: no samples")
	}
	if lambda <= 0 || math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		return nil, fmt.Errorf("train staffing model: invalid l2 penalty %v", lambda)
	}
	start := time.Now()

	const cols = 4 // intercept, day, hour, month
	x := mat.NewDense(len(samples), cols, nil)
	y := mat.NewVecDense(len(samples), nil)
	for i, s := range samples {
		x.SetRow(i, []float64{1, float64(s.DayOfWeek), float64(s.Hour), float64(s.Month)})
		y.SetVec(i, float64(s.Headcount))
	}

	gram := mat.NewSymDense(cols, nil)
	gram.SymOuterK(1, x.T())
	for j := 1; j < cols; j++ {
		gram.SetSym(j, j, gram.At(j, j)+lambda)
	}

	var xty mat.VecDense
	xty.MulVec(x.T(), y)

	var chol mat.Cholesky
	if ok := chol.Factorize(gram); !ok {
		return nil, errors.New("train staffing model: normal equations are not positive definite")
	}
	var beta mat.VecDense
	if err := chol.SolveVecTo(&beta, &xty); err != nil {
		return nil, fmt.Errorf("train staffing model: %w", err)
	}

	model := &StaffingModel{
		intercept: beta.AtVec(0),
		coef:      [3]float64{beta.AtVec(1), beta.AtVec(2), beta.AtVec(3)},
		lambda:    lambda,
		samples:   len(samples),
		trainedAt: time.Now().UTC(),
	}
	for _, v := range beta.RawVector().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.New("train staffing model: solver produced non-finite coefficients")
		}
	}

	metrics.ObserveTraining(time.Since(start))
	return model, nil
}

// Score is the raw regression output before rounding.
func (m *StaffingModel) Score(day, hour, month int) float64 {
	return m.intercept +
		m.coef[0]*float64(day) +
		m.coef[1]*float64(hour) +
		m.coef[2]*float64(month)
}

func (m *StaffingModel) Predict(req StaffingRequest) (StaffingPrediction, error) {
	if m == nil {
		return StaffingPrediction{}, ErrModelNotTrained
	}

	score := m.Score(req.DayOfWeek, req.Hour, req.Month)
	if math.IsNaN(score) || math.IsInf(score, 0) {
		metrics.IncPredictionFailed()
		return StaffingPrediction{}, ErrPredictionUnavailable
	}

	headcount := int(math.RoundToEven(score))
	if headcount < 0 {
		headcount = MinHeadcount
	}

	metrics.ObservePrediction(headcount)
	return StaffingPrediction{
		PredictedHeadcount: headcount,
		Period:             Period(req.Hour),
		Recommendation:     Recommendation(headcount, req.DayOfWeek),
	}, nil
}

// Period buckets an hour: [6,12) Morning, [12,18) Afternoon, [18,24) Night,
// anything else Dawn.
func Period(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return "Morning"
	case hour >= 12 && hour < 18:
		return "Afternoon"
	case hour >= 18 && hour < 24:
		return "Night"
	default:
		return "Dawn"
	}
}

// DayName maps 0..6 to Sunday..Saturday.
func DayName(day int) (string, bool) {
	if day < 0 || day >= len(dayNames) {
		return "", false
	}
	return dayNames[day], true
}

func Recommendation(headcount, day int) string {
	name, ok := DayName(day)
	if !ok {
		name = "invalid day"
	}
	switch {
	case headcount >= highMovementThreshold:
		return name + ": high movement, recommend full staffing"
	case headcount >= moderateMovementThreshold:
		return name + ": moderate movement, standard staffing"
	default:
		return name + ": low movement, reduced staffing may suffice"
	}
}

type StaffingModelInfo struct {
	Name         string             `json:"name"`
	Version      string             `json:"version"`
	Algorithm    string             `json:"algorithm"`
	Description  string             `json:"description"`
	Samples      int                `json:"samples"`
	L2Penalty    float64            `json:"l2Penalty"`
	Intercept    float64            `json:"intercept"`
	Coefficients map[string]float64 `json:"coefficients"`
	Parameters   map[string]string  `json:"parameters"`
	TrainedAt    time.Time          `json:"trainedAt"`
}

func (m *StaffingModel) Info() StaffingModelInfo {
	return StaffingModelInfo{
		Name:        staffingModelName,
		Version:     staffingModelVersion,
		Algorithm:   "ridge regression (closed-form normal equations)",
		Description: "Predicts the number of employees a yard needs from day of week, hour and month",
		Samples:     m.samples,
		L2Penalty:   m.lambda,
		Intercept:   m.intercept,
		Coefficients: map[string]float64{
			"dayOfWeek": m.coef[0],
			"hour":      m.coef[1],
			"month":     m.coef[2],
		},
		Parameters: map[string]string{
			"dayOfWeek": "0-6 (Sunday-Saturday)",
			"hour":      "0-23",
			"month":     "1-12",
		},
		TrainedAt: m.trainedAt,
	}
}

// Version keys cached predictions so a retrained model never serves stale entries.
func (m *StaffingModel) Version() string {
	return fmt.Sprintf("%s-%d", staffingModelVersion, m.trainedAt.UnixNano())
}
