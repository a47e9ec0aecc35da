package holtwinters

import (
	"fmt"
	"io"
	"time"

	"github.com/aouyang1/go-holtwinters/smoothing"
)

// Model is the serializeable representation of a fit Forecaster. It holds the options, the
// terminal smoothing state and enough timing information to timestamp future forecasts.
type Model struct {
	Options      *Options           `json:"options"`
	TrainEndTime time.Time          `json:"train_end_time"`
	Interval     time.Duration      `json:"interval"`
	Snapshot     smoothing.Snapshot `json:"snapshot"`
}

// TablePrint writes a human readable summary of the model
func (m Model) TablePrint(w io.Writer) error {
	prefix := ""
	indent := "  "

	if _, err := fmt.Fprintf(w, "Forecast:\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sTraining End Time: %s\n", prefix, indent, m.TrainEndTime); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sInterval: %s\n", prefix, indent, m.Interval); err != nil {
		return err
	}
	if m.Options != nil {
		if err := m.Options.TablePrint(w, prefix, indent, 1); err != nil {
			return err
		}
	}
	if err := m.Snapshot.TablePrint(w, prefix, indent, 0); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}
