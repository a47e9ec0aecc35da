// Package seriesio reads and writes series for the command line in CSV and JSON.
package seriesio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	holtwinters "github.com/aouyang1/go-holtwinters"
	"github.com/aouyang1/go-holtwinters/batch"
	"github.com/goccy/go-json"
)

var (
	ErrEmptyInput = errors.New("no rows in input")
	ErrInvalidRow = errors.New("invalid row")
)

// ReadCSV reads either a single value column or a time,value pair per row. A leading row whose
// value column is not numeric is treated as a header. Times are RFC3339 or unix seconds. For a
// single column the returned time slice is nil.
func ReadCSV(r io.Reader) ([]time.Time, []float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to read csv, %w", err)
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptyInput
	}

	width := len(records[0])
	if width < 1 || width > 2 {
		return nil, nil, fmt.Errorf("expected 1 or 2 columns, got %d, %w", width, ErrInvalidRow)
	}
	if _, err := parseValue(records[0][width-1]); err != nil {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptyInput
	}

	y := make([]float64, 0, len(records))
	var t []time.Time
	if width == 2 {
		t = make([]time.Time, 0, len(records))
	}
	for i, rec := range records {
		if len(rec) != width {
			return nil, nil, fmt.Errorf("row %d has %d columns, expected %d, %w", i, len(rec), width, ErrInvalidRow)
		}
		val, err := parseValue(rec[width-1])
		if err != nil {
			return nil, nil, fmt.Errorf("row %d, %s, %w", i, err.Error(), ErrInvalidRow)
		}
		y = append(y, val)
		if width == 2 {
			ts, err := ParseTime(rec[0])
			if err != nil {
				return nil, nil, fmt.Errorf("row %d, %s, %w", i, err.Error(), ErrInvalidRow)
			}
			t = append(t, ts)
		}
	}
	return t, y, nil
}

func parseValue(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// ParseTime accepts an RFC3339 timestamp or integer unix seconds
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	return time.Parse(time.RFC3339, s)
}

type jsonSeries struct {
	T []time.Time `json:"time"`
	Y []float64   `json:"values"`
}

// ReadJSON reads an object with a values array and an optional time array
func ReadJSON(r io.Reader) ([]time.Time, []float64, error) {
	var s jsonSeries
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, nil, fmt.Errorf("unable to decode json series, %w", err)
	}
	if len(s.Y) == 0 {
		return nil, nil, ErrEmptyInput
	}
	return s.T, s.Y, nil
}

// ReadBatchJSON reads an array of named series
func ReadBatchJSON(r io.Reader) ([]batch.Series, error) {
	var series []batch.Series
	if err := json.NewDecoder(r).Decode(&series); err != nil {
		return nil, fmt.Errorf("unable to decode json batch, %w", err)
	}
	if len(series) == 0 {
		return nil, ErrEmptyInput
	}
	return series, nil
}

// WriteSeriesCSV writes a time,value row per point
func WriteSeriesCSV(w io.Writer, t []time.Time, y []float64) error {
	if len(t) != len(y) {
		return fmt.Errorf("time has length %d but values has length %d, %w", len(t), len(y), ErrInvalidRow)
	}
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"time", "value"}); err != nil {
		return err
	}
	for i := range y {
		if err := writer.Write([]string{t[i].Format(time.RFC3339), formatFloat(y[i])}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteResultsCSV writes the forecast and its components per forecast time
func WriteResultsCSV(w io.Writer, res *holtwinters.Results) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"time", "forecast", "level", "trend", "seasonality"}); err != nil {
		return err
	}
	for i := range res.Forecast {
		row := []string{
			res.T[i].Format(time.RFC3339),
			formatFloat(res.Forecast[i]),
			formatFloat(res.Components.Level[i]),
			formatFloat(res.Components.Trend[i]),
			formatFloat(res.Components.Seasonality[i]),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON writes v as indented json
func WriteJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode json, %w", err)
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
