// Package report renders fitted RBIG models for the command line.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/jejjohnson/2019-rbig-rs/rbig"
)

// Summary describes one fit.
type Summary struct {
	Input            string    `json:"input"`
	Rows             int       `json:"rows"`
	Cols             int       `json:"cols"`
	UsedRows         int       `json:"usedRows"`
	RandomState      uint64    `json:"randomState"`
	Layers           int       `json:"layers"`
	TotalCorrelation float64   `json:"totalCorrelation"`
	Entropy          float64   `json:"entropy"`
	ResidualInfo     []float64 `json:"residualInfo,omitempty"`
}

// Summarize collects the summary of a fitted model. rows and cols are the
// dimensions of the data before subsampling.
func Summarize(input string, rows, cols int, randomState uint64, m *rbig.Model) (Summary, error) {
	tc, err := m.TotalCorrelation()
	if err != nil {
		return Summary{}, err
	}
	h, err := m.Entropy()
	if err != nil {
		return Summary{}, err
	}
	used, _ := m.TrainingData().Dims()
	return Summary{
		Input:            input,
		Rows:             rows,
		Cols:             cols,
		UsedRows:         used,
		RandomState:      randomState,
		Layers:           m.Layers(),
		TotalCorrelation: tc,
		Entropy:          h,
		ResidualInfo:     m.ResidualInfo(),
	}, nil
}

func tableStyle() table.Style {
	style := table.StyleRounded
	style.Format.Header = text.FormatDefault
	return style
}

// WriteTable renders s as a two column table.
func WriteTable(w io.Writer, s Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(tableStyle())
	t.SetTitle("RBIG fit")
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"input", s.Input},
		{"rows", s.Rows},
		{"columns", s.Cols},
		{"rows used", s.UsedRows},
		{"random state", s.RandomState},
		{"layers", s.Layers},
		{"total correlation (bits)", fmt.Sprintf("%.4f", s.TotalCorrelation)},
		{"entropy (bits)", fmt.Sprintf("%.4f", s.Entropy)},
	})
	t.Render()
}

// WriteJSON writes s as indented JSON.
func WriteJSON(w io.Writer, s Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
