package holtwinters

import (
	"math"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// LineTSeries generates an echart multi-line chart for some arbitrary time/value combination. The input
// y is a slice of series that must have the same length as the input time slice. NaN values are
// rendered as gaps.
func LineTSeries(title string, seriesName []string, t []time.Time, y [][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
	)

	line = line.SetXAxis(t)
	for i, series := range seriesName {
		if i >= len(y) {
			break
		}
		line = line.AddSeries(series, toLineData(y[i]))
	}
	return line
}

// LineForecaster generates an echart line chart of the observations and in-sample fit followed by the
// forecast past the end of the training data.
func LineForecaster(fit *FitResults, res *Results) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: "Forecast Fit",
			},
		),
	)

	n := len(fit.T)
	h := len(res.T)
	t := make([]time.Time, 0, n+h)
	t = append(t, fit.T...)
	t = append(t, res.T...)

	lineDataActual := make([]opts.LineData, 0, n+h)
	lineDataFitted := make([]opts.LineData, 0, n+h)
	lineDataForecast := make([]opts.LineData, 0, n+h)

	for i := 0; i < n; i++ {
		lineDataActual = append(lineDataActual, lineValue(fit.Observed[i]))
		lineDataFitted = append(lineDataFitted, lineValue(fit.Fitted[i]))
		lineDataForecast = append(lineDataForecast, opts.LineData{})
	}
	for i := 0; i < h; i++ {
		lineDataActual = append(lineDataActual, opts.LineData{})
		lineDataFitted = append(lineDataFitted, opts.LineData{})
		lineDataForecast = append(lineDataForecast, lineValue(res.Forecast[i]))
	}

	line.SetXAxis(t).
		AddSeries("Actual", lineDataActual).
		AddSeries("Fitted", lineDataFitted).
		AddSeries("Forecast", lineDataForecast)
	return line
}

func toLineData(y []float64) []opts.LineData {
	data := make([]opts.LineData, 0, len(y))
	for _, v := range y {
		data = append(data, lineValue(v))
	}
	return data
}

// lineValue leaves the value unset for non-finite points which echarts draws as a gap
func lineValue(v float64) opts.LineData {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return opts.LineData{}
	}
	return opts.LineData{Value: v}
}
