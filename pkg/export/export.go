package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/edp1096/toy-tonestack/pkg/series"
)

const (
	MagnitudeSheet = "Magnitude"
	PhaseSheet     = "Phase"
)

// Workbook lays out one sheet per view. Row 1 holds the labels, each
// following row one frequency. Non-finite samples are left blank.
func Workbook(mag, phase series.View) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", MagnitudeSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(PhaseSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("creating sheet: %w", err)
	}

	for sheet, view := range map[string]series.View{MagnitudeSheet: mag, PhaseSheet: phase} {
		if err := writeSheet(f, sheet, view); err != nil {
			f.Close()
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, view series.View) error {
	for col, label := range view.Labels {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, label); err != nil {
			return err
		}
	}

	for i, row := range view.Data {
		for col, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteXLSX saves magnitude and phase to an .xlsx file.
func WriteXLSX(path string, mag, phase series.View) error {
	f, err := Workbook(mag, phase)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// WriteCSV writes a view with a label header. Non-finite samples are blank.
func WriteCSV(w io.Writer, view series.View) error {
	return writeDelimited(w, view, ',')
}

// WriteTSV is WriteCSV with tab separators.
func WriteTSV(w io.Writer, view series.View) error {
	return writeDelimited(w, view, '\t')
}

func writeDelimited(w io.Writer, view series.View, comma rune) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma

	if err := cw.Write(view.Labels); err != nil {
		return err
	}

	record := make([]string, 0, view.Series+1)
	for _, row := range view.Data {
		record = record[:0]
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes a view to path, tab separated when tsv is set.
func SaveCSV(path string, view series.View, tsv bool) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()

	comma := ','
	if tsv {
		comma = '\t'
	}
	if err := writeDelimited(fp, view, comma); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return fp.Close()
}
