package series

import (
	"strconv"

	"github.com/edp1096/toy-tonestack/internal/consts"
)

// Table accumulates response curves over a fixed frequency axis.
// Row j is [f_j, y_j^1, ..., y_j^Series]; the last column is the live series
// which every recompute overwrites, the others are frozen snapshots.
type Table struct {
	Data   [][]float64
	Labels []string // x label followed by one label per series
	Colors []string // one colour per series
	Series int

	xLabel  string
	yLabel  string
	palette []string
	freqs   []float64
}

// View is a read-only copy of a table for renderers and exporters.
type View struct {
	Data   [][]float64
	Labels []string
	Colors []string
	Series int
	YLabel string
}

func New(axis []float64, xLabel, yLabel string, palette []string) *Table {
	if len(palette) == 0 {
		palette = consts.ColorSpectrum
	}
	t := &Table{
		xLabel:  xLabel,
		yLabel:  yLabel,
		palette: append([]string(nil), palette...),
		freqs:   append([]float64(nil), axis...),
	}
	t.ClearSnapshots()
	return t
}

// NewAmplitude creates a dB table with the default labels and colours.
func NewAmplitude(axis []float64) *Table {
	return New(axis, consts.FrequencyLabel, consts.AmplitudeLabel, consts.ColorSpectrum)
}

// NewPhase creates a degree table with the default labels and colours.
func NewPhase(axis []float64) *Table {
	return New(axis, consts.FrequencyLabel, consts.PhaseLabel, consts.ColorSpectrum)
}

// Live returns the column index overwritten by recomputes.
func (t *Table) Live() int {
	return t.Series
}

func (t *Table) Len() int {
	return len(t.Data)
}

func (t *Table) Set(row, col int, v float64) {
	t.Data[row][col] = v
}

func (t *Table) Frequencies() []float64 {
	return append([]float64(nil), t.freqs...)
}

// AddSeries freezes the live column as a snapshot and opens a new live
// column, seeded with the frozen values.
func (t *Table) AddSeries() {
	t.Colors = append(t.Colors, t.palette[t.Series%len(t.palette)])
	t.Labels = append(t.Labels, t.yLabel+strconv.Itoa(t.Series+1))
	t.Series++

	for i, row := range t.Data {
		t.Data[i] = append(row, row[len(row)-1])
	}
}

// ClearSnapshots drops every snapshot and resets rows to [f, 0].
func (t *Table) ClearSnapshots() {
	t.Series = 1
	t.Colors = []string{t.palette[0]}
	t.Labels = []string{t.xLabel, t.yLabel + "1"}

	t.Data = make([][]float64, len(t.freqs))
	for i, f := range t.freqs {
		t.Data[i] = []float64{f, 0}
	}
}

func (t *Table) Snapshot() View {
	data := make([][]float64, len(t.Data))
	for i, row := range t.Data {
		data[i] = append([]float64(nil), row...)
	}
	return View{
		Data:   data,
		Labels: append([]string(nil), t.Labels...),
		Colors: append([]string(nil), t.Colors...),
		Series: t.Series,
		YLabel: t.yLabel,
	}
}

// Column returns series s (1-based) of a view.
func (v View) Column(s int) []float64 {
	col := make([]float64, len(v.Data))
	for i, row := range v.Data {
		col[i] = row[s]
	}
	return col
}

func (v View) Frequencies() []float64 {
	return v.Column(0)
}
