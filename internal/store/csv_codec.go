package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"lab-attendance-backend/internal/model"
	"lab-attendance-backend/internal/parse"
)

// Header is the fixed first row of the attendance file.
var Header = []string{"Register Number", "Programme", "Year", "Purpose", "Login Time", "Logout Time"}

// EncodeRow renders rec as a CSV row. An open visit has an empty logout cell.
func EncodeRow(rec model.AttendanceRecord, loc *time.Location) []string {
	logout := ""
	if rec.LogoutTime != nil {
		logout = parse.FormatTimestamp(*rec.LogoutTime, loc)
	}
	return []string{
		rec.RegisterNumber,
		string(rec.Programme),
		string(rec.Year),
		string(rec.Purpose),
		parse.FormatTimestamp(rec.LoginTime, loc),
		logout,
	}
}

// DecodeRow parses a CSV row written by EncodeRow or by the old form page.
func DecodeRow(row []string, loc *time.Location) (model.AttendanceRecord, error) {
	if len(row) != len(Header) {
		return model.AttendanceRecord{}, fmt.Errorf("expected %d fields, got %d", len(Header), len(row))
	}
	if row[0] == "" {
		return model.AttendanceRecord{}, fmt.Errorf("empty register number")
	}

	programme, err := parse.Programme(row[1])
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	year, err := parse.Year(row[2])
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	purpose, err := parse.Purpose(row[3])
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	login, err := parse.Timestamp(row[4], loc)
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	logout, err := parse.OptionalTimestamp(row[5], loc)
	if err != nil {
		return model.AttendanceRecord{}, err
	}

	return model.AttendanceRecord{
		RegisterNumber: row[0],
		Programme:      programme,
		Year:           year,
		Purpose:        purpose,
		LoginTime:      login,
		LogoutTime:     logout,
	}, nil
}

// WriteCSV writes the header followed by one row per record for download.
// Cells that a spreadsheet would evaluate as a formula are prefixed with a
// single quote. The attendance file itself is written without this.
func WriteCSV(w io.Writer, records []model.AttendanceRecord, loc *time.Location) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, rec := range records {
		row := EncodeRow(rec, loc)
		for i, cell := range row {
			row[i] = escapeFormula(cell)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func escapeFormula(cell string) string {
	if cell != "" && strings.ContainsRune("=+-@\t\r", rune(cell[0])) {
		return "'" + cell
	}
	return cell
}

func headerMatches(row []string) bool {
	if len(row) != len(Header) {
		return false
	}
	for i := range Header {
		if row[i] != Header[i] {
			return false
		}
	}
	return true
}
