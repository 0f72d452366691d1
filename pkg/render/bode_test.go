package render

import (
	"bytes"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edp1096/toy-tonestack/pkg/series"
)

func sampleView() series.View {
	axis := []float64{10, 100, 1000, 10000}
	tbl := series.NewAmplitude(axis)
	for i := range axis {
		tbl.Set(i, 1, -float64(i))
	}
	tbl.AddSeries()
	tbl.Set(2, 2, math.Inf(-1))
	return tbl.Snapshot()
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#D50")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0xDD, G: 0x55, B: 0x00, A: 255}, c)

	c, err = ParseColor("#0a0B0c")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 10, G: 11, B: 12, A: 255}, c)

	c, err = ParseColor("SlateBlue")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 106, G: 90, B: 205, A: 255}, c)

	for _, bad := range []string{"#12", "#zzzzzz", "notacolour", ""} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestSegmentsSkipNonFinite(t *testing.T) {
	view := sampleView()
	assert.Len(t, segments(view, 1), 1)

	runs := segments(view, 2)
	require.Len(t, runs, 2)
	assert.Len(t, runs[0], 2)
	assert.Len(t, runs[1], 1)
}

func TestBodeWritesPNGAndSVG(t *testing.T) {
	p, err := Bode(sampleView(), "test")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(p, "png", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	path := filepath.Join(t.TempDir(), "out.svg")
	require.NoError(t, Save(p, path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "<svg")
}

func TestBodeNoData(t *testing.T) {
	tbl := series.NewPhase([]float64{10, 100})
	tbl.Set(0, 1, math.NaN())
	tbl.Set(1, 1, math.NaN())
	_, err := Bode(tbl.Snapshot(), "empty")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSaveBode(t *testing.T) {
	axis := []float64{10, 100, 1000}
	mag := series.NewAmplitude(axis)
	phase := series.NewPhase(axis)
	for i := range axis {
		mag.Set(i, 1, -float64(i))
		phase.Set(i, 1, -45*float64(i))
	}

	path := filepath.Join(t.TempDir(), "bode.png")
	require.NoError(t, SaveBode(mag.Snapshot(), phase.Snapshot(), "rc", path))
	assert.FileExists(t, path)
	assert.FileExists(t, filepath.Join(filepath.Dir(path), "bode-phase.png"))
}

func TestPhasePath(t *testing.T) {
	assert.Equal(t, "out/plot-phase.svg", PhasePath("out/plot.svg"))
	assert.Equal(t, "plot-phase", PhasePath("plot"))
}

func TestLegend(t *testing.T) {
	view := sampleView()
	assert.Equal(t, "100 Hz : -1.000 dB -1.000 dB", Legend(view, 1))
	assert.Equal(t, "1000 Hz : -2.000 dB -Inf dB", Legend(view, 2))
	assert.Empty(t, Legend(view, 9))

	phase := series.NewPhase([]float64{20})
	assert.Equal(t, "20 Hz : 0.000 deg", Legend(phase.Snapshot(), 0))
}
