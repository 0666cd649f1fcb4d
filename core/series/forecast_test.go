package series

import (
	"math"
	"testing"

	"cloudcost/core/types"
)

func dailySeries(start string, values []float64) []types.DailyPoint {
	// start must be YYYY-MM-DD; days increment from there
	points := make([]types.DailyPoint, 0, len(values))
	day := start
	for _, v := range values {
		points = append(points, types.DailyPoint{Day: day, Value: v})
		day = nextDay(day)
	}
	return points
}

func nextDay(day string) string {
	t, _ := parseInstanceTimestamp(day)
	return t.AddDate(0, 0, 1).Format("2006-01-02")
}

func TestForecastConstantSeries(t *testing.T) {
	values := make([]float64, 21)
	for i := range values {
		values[i] = 10
	}

	result := Forecast(dailySeries("2023-01-01", values))
	if len(result.Forecast) != 7 {
		t.Fatalf("forecast length = %d, want 7", len(result.Forecast))
	}
	if result.Model != "linear+weekly" {
		t.Errorf("model = %s, want linear+weekly", result.Model)
	}
	for _, p := range result.Forecast {
		if math.Abs(p.Predicted-10) > 0.05 {
			t.Errorf("prediction for %s = %v, want ~10", p.Date, p.Predicted)
		}
	}
	// horizon starts the day after the last observation
	if result.Forecast[0].Date != "2023-01-22" {
		t.Errorf("first forecast date = %s, want 2023-01-22", result.Forecast[0].Date)
	}
}

func TestForecastLinearTrend(t *testing.T) {
	values := make([]float64, 28)
	for i := range values {
		values[i] = float64(i)
	}

	result := Forecast(dailySeries("2023-01-01", values))
	if len(result.Forecast) != 7 {
		t.Fatalf("forecast length = %d, want 7", len(result.Forecast))
	}
	for i, p := range result.Forecast {
		want := float64(27 + i + 1)
		if math.Abs(p.Predicted-want) > 0.25 {
			t.Errorf("prediction %d = %v, want ~%v", i, p.Predicted, want)
		}
	}
}

func TestForecastClampsNegativePredictions(t *testing.T) {
	values := make([]float64, 14)
	for i := range values {
		values[i] = float64(20 - 10*i) // steep decline through zero
	}

	result := Forecast(dailySeries("2023-01-01", values))
	for _, p := range result.Forecast {
		if p.Predicted < 0 {
			t.Errorf("prediction for %s = %v, negative predictions must clamp to 0", p.Date, p.Predicted)
		}
	}
}

func TestForecastDegenerateInputs(t *testing.T) {
	tests := []struct {
		name   string
		series []types.DailyPoint
		note   string
	}{
		{name: "empty", series: nil, note: "no input rows"},
		{name: "single point", series: dailySeries("2023-01-01", []float64{5}), note: "not enough data points"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Forecast(tt.series)
			if len(result.Forecast) != 0 {
				t.Errorf("forecast = %v, want empty", result.Forecast)
			}
			if result.Model != "none" {
				t.Errorf("model = %s, want none", result.Model)
			}
			if result.Note != tt.note {
				t.Errorf("note = %q, want %q", result.Note, tt.note)
			}
		})
	}
}
