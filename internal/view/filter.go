// Package view narrows and summarises attendance records for the faculty page.
package view

import (
	"strings"

	"lab-attendance-backend/internal/model"
	"lab-attendance-backend/internal/parse"
)

// Criteria selects records by programme, year and purpose. An empty field
// means "All" and matches every record.
type Criteria struct {
	Programme model.Programme
	Year      model.Year
	Purpose   model.Purpose
}

// All matches every record.
var All = Criteria{}

const allOption = "all"

// ParseCriteria reads the three selector values as sent by the client.
// Empty strings and "All" leave that constraint off.
func ParseCriteria(programme, year, purpose string) (Criteria, error) {
	var c Criteria
	var err error
	if !isAll(programme) {
		if c.Programme, err = parse.Programme(programme); err != nil {
			return Criteria{}, err
		}
	}
	if !isAll(year) {
		if c.Year, err = parse.Year(year); err != nil {
			return Criteria{}, err
		}
	}
	if !isAll(purpose) {
		if c.Purpose, err = parse.Purpose(purpose); err != nil {
			return Criteria{}, err
		}
	}
	return c, nil
}

func isAll(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "" || strings.EqualFold(raw, allOption)
}

// Match reports whether r satisfies every active constraint.
func (c Criteria) Match(r model.AttendanceRecord) bool {
	if c.Programme != "" && r.Programme != c.Programme {
		return false
	}
	if c.Year != "" && r.Year != c.Year {
		return false
	}
	if c.Purpose != "" && r.Purpose != c.Purpose {
		return false
	}
	return true
}

// Filter returns the matching records in their original order. The input
// slice is not modified.
func Filter(records []model.AttendanceRecord, c Criteria) []model.AttendanceRecord {
	out := make([]model.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Stats summarises a set of records.
type Stats struct {
	TotalVisits    int `json:"total_visits"`
	UniqueStudents int `json:"unique_students"`
}

func Summarize(records []model.AttendanceRecord) Stats {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		seen[r.RegisterNumber] = struct{}{}
	}
	return Stats{TotalVisits: len(records), UniqueStudents: len(seen)}
}
