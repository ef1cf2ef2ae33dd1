// Package export writes the workout log to a spreadsheet.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"example.com/workoutmap/internal/workout"
)

// Sheet names.
const (
	SheetWorkouts = "Workouts"
	SheetSummary  = "Summary"
)

var workoutHeader = []string{"ID", "Date", "Type", "Description", "Lat", "Lng", "Distance (km)", "Duration (min)", "Metric", "Unit", "Cadence (spm)", "Elevation (m)"}

// Workbook builds a workbook with one row per record in log order and a per-type summary.
func Workbook(records []workout.Record) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SheetWorkouts); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, err
	}

	if err := writeWorkouts(f, records); err != nil {
		return nil, fmt.Errorf("workouts sheet: %w", err)
	}
	if err := writeSummary(f, records); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write builds the workbook and writes it to w.
func Write(w io.Writer, records []workout.Record) error {
	f, err := Workbook(records)
	if err != nil {
		return err
	}
	defer f.Close()

	return f.Write(w)
}

func writeWorkouts(f *excelize.File, records []workout.Record) error {
	sheet := SheetWorkouts

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(sheet, "A1", &workoutHeader); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "L1", headerStyle); err != nil {
		return err
	}

	for i, r := range records {
		metric, unit := r.Metric()
		row := []interface{}{
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04"),
			string(r.Kind),
			r.Description,
			r.Coords.Lat,
			r.Coords.Lng,
			r.DistanceKm,
			r.DurationMin,
			metric,
			unit,
			nil,
			nil,
		}
		switch r.Kind {
		case workout.KindRunning:
			row[10] = r.Cadence
		case workout.KindCycling:
			row[11] = r.ElevationGain
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 16); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "D", "D", 24)
}

type totals struct {
	count    int
	distance float64
	duration float64
}

func writeSummary(f *excelize.File, records []workout.Record) error {
	sheet := SheetSummary

	byKind := map[workout.Kind]*totals{
		workout.KindRunning: {},
		workout.KindCycling: {},
	}
	for _, r := range records {
		t, ok := byKind[r.Kind]
		if !ok {
			continue
		}
		t.count++
		t.distance += r.DistanceKm
		t.duration += r.DurationMin
	}

	header := []interface{}{"Type", "Workouts", "Distance (km)", "Duration (min)"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, kind := range []workout.Kind{workout.KindRunning, workout.KindCycling} {
		t := byKind[kind]
		row := []interface{}{kind.Label(), t.count, t.distance, t.duration}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return err
		}
	}
	return nil
}
