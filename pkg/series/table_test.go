package series

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAxis = []float64{10, 100, 1000}

func assertShape(t *testing.T, tbl *Table) {
	t.Helper()
	require.Len(t, tbl.Labels, tbl.Series+1)
	require.Len(t, tbl.Colors, tbl.Series)
	require.Len(t, tbl.Data, len(testAxis))
	for i, row := range tbl.Data {
		require.Len(t, row, tbl.Series+1, "row %d", i)
		assert.Equal(t, testAxis[i], row[0])
	}
}

func TestNew(t *testing.T) {
	tbl := New(testAxis, "f", "y", []string{"a", "b", "c"})

	assert.Equal(t, 1, tbl.Series)
	assert.Equal(t, 1, tbl.Live())
	assert.Equal(t, []string{"f", "y1"}, tbl.Labels)
	assert.Equal(t, []string{"a"}, tbl.Colors)
	if diff := cmp.Diff([][]float64{{10, 0}, {100, 0}, {1000, 0}}, tbl.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
	assertShape(t, tbl)
}

func TestAddSeries(t *testing.T) {
	tbl := New(testAxis, "f", "y", []string{"a", "b", "c"})
	for i := range testAxis {
		tbl.Set(i, tbl.Live(), float64(i+1))
	}

	tbl.AddSeries()
	assert.Equal(t, 2, tbl.Live())
	assert.Equal(t, []string{"f", "y1", "y2"}, tbl.Labels)
	assert.Equal(t, []string{"a", "b"}, tbl.Colors)
	assertShape(t, tbl)

	// new live column overwritten, the snapshot stays
	for i := range testAxis {
		tbl.Set(i, tbl.Live(), -1)
	}
	want := [][]float64{{10, 1, -1}, {100, 2, -1}, {1000, 3, -1}}
	if diff := cmp.Diff(want, tbl.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestPaletteWraps(t *testing.T) {
	tbl := New(testAxis, "f", "y", []string{"a", "b"})
	tbl.AddSeries()
	tbl.AddSeries()
	tbl.AddSeries()
	assert.Equal(t, []string{"a", "b", "a", "b"}, tbl.Colors)
	assert.Equal(t, "y4", tbl.Labels[4])
	assertShape(t, tbl)
}

func TestClearSnapshots(t *testing.T) {
	tbl := NewAmplitude(testAxis)
	tbl.AddSeries()
	tbl.AddSeries()
	tbl.Set(0, tbl.Live(), 5)

	tbl.ClearSnapshots()
	assert.Equal(t, 1, tbl.Series)
	assert.Equal(t, []string{"frequency [Hz]", "amplitude [dB]1"}, tbl.Labels)
	assert.Equal(t, []string{"#D50"}, tbl.Colors)
	if diff := cmp.Diff([][]float64{{10, 0}, {100, 0}, {1000, 0}}, tbl.Data); diff != "" {
		t.Errorf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestShapeInvariantOverSequences(t *testing.T) {
	ops := []string{"add", "add", "clear", "add", "clear", "clear", "add", "add", "add", "add", "add", "add", "add", "add", "add", "add", "add"}
	tbl := NewPhase(testAxis)
	for _, op := range ops {
		if op == "add" {
			tbl.AddSeries()
		} else {
			tbl.ClearSnapshots()
		}
		assertShape(t, tbl)
	}
	assert.Equal(t, 12, tbl.Series)
}

func TestSnapshotIsACopy(t *testing.T) {
	tbl := NewAmplitude(testAxis)
	view := tbl.Snapshot()
	view.Data[0][1] = 42
	view.Labels[0] = "changed"

	assert.Zero(t, tbl.Data[0][1])
	assert.Equal(t, "frequency [Hz]", tbl.Labels[0])
	assert.Equal(t, "amplitude [dB]", view.YLabel)
	assert.Equal(t, testAxis, view.Frequencies())
	assert.Equal(t, testAxis, tbl.Frequencies())
}
