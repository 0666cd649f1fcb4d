package series

import (
	"math"
	"time"

	"cloudcost/core/types"
)

const (
	forecastHorizon = 7
	weeklyPeriod    = 7.0
)

// ForecastResult is the fitted short-horizon forecast for one entity's
// daily series.
type ForecastResult struct {
	Forecast []types.ForecastPoint `json:"forecast"`
	Model    string                `json:"model"`
	Coeffs   []float64             `json:"coeffs,omitempty"`
	Note     string                `json:"note,omitempty"`
}

// Forecast fits y = a + b*x + c*sin(wx) + d*cos(wx) with w = 2*pi/7
// over the given daily series by least squares and projects seven days
// past the last point. Predictions are clamped at zero and rounded to
// two decimals. Fewer than two points cannot anchor the fit and yield
// an empty forecast with a note.
func Forecast(series []types.DailyPoint) *ForecastResult {
	if len(series) == 0 {
		return &ForecastResult{Forecast: []types.ForecastPoint{}, Model: "none", Note: "no input rows"}
	}
	if len(series) < 2 {
		return &ForecastResult{Forecast: []types.ForecastPoint{}, Model: "none", Note: "not enough data points"}
	}

	start, err := time.Parse("2006-01-02", series[0].Day)
	if err != nil {
		return &ForecastResult{Forecast: []types.ForecastPoint{}, Model: "none", Note: "unparseable series start"}
	}

	w := 2 * math.Pi / weeklyPeriod

	// normal equations for the 4-parameter design matrix
	var ata [4][4]float64
	var atb [4]float64
	for i, p := range series {
		x := float64(i)
		row := [4]float64{1, x, math.Sin(w * x), math.Cos(w * x)}
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				ata[a][b] += row[a] * row[b]
			}
			atb[a] += row[a] * p.Value
		}
	}

	model := "linear+weekly"
	coeffs, ok := solve4(ata, atb)
	if !ok {
		// short series cannot pin down the weekly terms; fall back to
		// a plain linear fit
		a, b, fitOK := fitLinear(series)
		if !fitOK {
			return &ForecastResult{Forecast: []types.ForecastPoint{}, Model: "none", Note: "degenerate fit"}
		}
		coeffs = [4]float64{a, b, 0, 0}
		model = "linear"
	}

	lastX := float64(len(series) - 1)
	out := make([]types.ForecastPoint, 0, forecastHorizon)
	for i := 1; i <= forecastHorizon; i++ {
		x := lastX + float64(i)
		pred := coeffs[0] + coeffs[1]*x + coeffs[2]*math.Sin(w*x) + coeffs[3]*math.Cos(w*x)
		out = append(out, types.ForecastPoint{
			Date:      start.AddDate(0, 0, int(x)).Format("2006-01-02"),
			Predicted: round2(math.Max(pred, 0)),
		})
	}

	return &ForecastResult{
		Forecast: out,
		Model:    model,
		Coeffs:   coeffs[:],
	}
}

// fitLinear is the ordinary least-squares line through (i, value).
func fitLinear(series []types.DailyPoint) (intercept, slope float64, ok bool) {
	n := float64(len(series))
	var sumX, sumY, sumXX, sumXY float64
	for i, p := range series {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXX += x * x
		sumXY += x * p.Value
	}
	det := n*sumXX - sumX*sumX
	if math.Abs(det) < 1e-12 {
		return 0, 0, false
	}
	slope = (n*sumXY - sumX*sumY) / det
	intercept = (sumY - slope*sumX) / n
	return intercept, slope, true
}

// solve4 solves a 4x4 linear system by Gaussian elimination with
// partial pivoting. ok is false when the system is singular.
func solve4(m [4][4]float64, b [4]float64) ([4]float64, bool) {
	var x [4]float64

	for col := 0; col < 4; col++ {
		pivot := col
		for r := col + 1; r < 4; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(m[pivot][col]) < 1e-12 {
			return x, false
		}
		m[col], m[pivot] = m[pivot], m[col]
		b[col], b[pivot] = b[pivot], b[col]

		for r := col + 1; r < 4; r++ {
			f := m[r][col] / m[col][col]
			for c := col; c < 4; c++ {
				m[r][c] -= f * m[col][c]
			}
			b[r] -= f * b[col]
		}
	}

	for r := 3; r >= 0; r-- {
		sum := b[r]
		for c := r + 1; c < 4; c++ {
			sum -= m[r][c] * x[c]
		}
		x[r] = sum / m[r][r]
	}
	return x, true
}
