package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/edp1096/toy-tonestack/internal/consts"
	"github.com/edp1096/toy-tonestack/pkg/series"
)

var ErrNoData = errors.New("no finite points to plot")

// Default figure size.
var (
	Width  = vg.Points(800)
	Height = vg.Points(400)
)

// Bode draws every series of a table over a log frequency axis. Non-finite
// samples split a curve instead of being drawn.
func Bode(view series.View, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = consts.FrequencyLabel
	p.Y.Label.Text = view.YLabel
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	drawn := false
	for s := 1; s <= view.Series; s++ {
		c, err := ParseColor(view.Colors[(s-1)%len(view.Colors)])
		if err != nil {
			return nil, fmt.Errorf("series %d: %w", s, err)
		}

		var legendLine *plotter.Line
		for _, pts := range segments(view, s) {
			line, err := plotter.NewLine(pts)
			if err != nil {
				return nil, fmt.Errorf("failed to create line for series %d: %w", s, err)
			}
			line.Color = c
			line.LineStyle.Width = vg.Points(2)
			p.Add(line)
			if legendLine == nil {
				legendLine = line
			}
			drawn = true
		}
		if legendLine != nil {
			p.Legend.Add(view.Labels[s], legendLine)
		}
	}
	if !drawn {
		return nil, ErrNoData
	}

	p.Legend.Top = true
	p.Legend.XOffs = vg.Points(-10)
	return p, nil
}

// segments splits column s into runs of finite points.
func segments(view series.View, s int) []plotter.XYs {
	var runs []plotter.XYs
	var cur plotter.XYs
	for _, row := range view.Data {
		x, y := row[0], row[s]
		if math.IsNaN(y) || math.IsInf(y, 0) || !(x > 0) {
			if len(cur) > 0 {
				runs = append(runs, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: x, Y: y})
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs
}

// Save writes the plot, the format follows the file extension.
func Save(p *plot.Plot, path string) error {
	if err := p.Save(Width, Height, path); err != nil {
		return fmt.Errorf("saving plot %s: %w", path, err)
	}
	return nil
}

// Write encodes the plot as format (png, svg, pdf, ...) into w.
func Write(p *plot.Plot, format string, w io.Writer) error {
	writer, err := p.WriterTo(Width, Height, format)
	if err != nil {
		return fmt.Errorf("failed to create plot writer: %w", err)
	}
	if _, err := writer.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write plot: %w", err)
	}
	return nil
}

// SaveBode writes the magnitude plot to path and the phase plot next to it
// with a "-phase" suffix.
func SaveBode(mag, phase series.View, title, path string) error {
	for _, item := range []struct {
		view series.View
		path string
	}{{mag, path}, {phase, PhasePath(path)}} {
		p, err := Bode(item.view, title)
		if err != nil {
			return fmt.Errorf("%s: %w", item.view.YLabel, err)
		}
		if err := Save(p, item.path); err != nil {
			return err
		}
	}
	return nil
}

// PhasePath derives the phase file name, out.png -> out-phase.png
func PhasePath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-phase" + ext
}

// ParseColor accepts #RGB, #RRGGBB and CSS colour names.
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return nil, fmt.Errorf("invalid colour %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid colour %q", s)
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}

	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("unknown colour %q", s)
}

// Legend formats one row of a view the way the graph legend shows it:
// "<f> Hz : <y1> dB <y2> dB".
func Legend(view series.View, row int) string {
	if row < 0 || row >= len(view.Data) {
		return ""
	}
	unit := unitOf(view.YLabel)

	var b strings.Builder
	data := view.Data[row]
	b.WriteString(strconv.FormatFloat(data[0], 'g', 7, 64))
	b.WriteString(" Hz :")
	for s := 1; s <= view.Series && s < len(data); s++ {
		fmt.Fprintf(&b, " %.3f %s", data[s], unit)
	}
	return b.String()
}

// unitOf extracts "dB" from "amplitude [dB]".
func unitOf(label string) string {
	open := strings.LastIndex(label, "[")
	end := strings.LastIndex(label, "]")
	if open < 0 || end <= open {
		return ""
	}
	return label[open+1 : end]
}
