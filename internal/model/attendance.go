package model

import "time"

// Programme is the degree programme a visiting student belongs to.
// The value is the display label that is persisted.
type Programme string

const (
	DataAnalytics         Programme = "M.Sc Data Analytics"
	InformationTechnology Programme = "M.Sc Information Technology"
	CyberSecurity         Programme = "M.Sc Cyber Security"
	AIML                  Programme = "B.Sc AI & ML"
)

// Programmes lists every programme in selector order.
var Programmes = []Programme{DataAnalytics, InformationTechnology, CyberSecurity, AIML}

// Valid reports whether p is one of the known programmes.
func (p Programme) Valid() bool {
	for _, known := range Programmes {
		if p == known {
			return true
		}
	}
	return false
}

// Year is the year of study.
type Year string

const (
	YearI   Year = "I"
	YearII  Year = "II"
	YearIII Year = "III"
)

// Years lists every year in selector order.
var Years = []Year{YearI, YearII, YearIII}

// Valid reports whether y is one of the known years.
func (y Year) Valid() bool {
	for _, known := range Years {
		if y == known {
			return true
		}
	}
	return false
}

// Purpose is the reason given for a lab visit.
type Purpose string

const (
	LabPractical Purpose = "Lab Practical"
	ProjectWork  Purpose = "Project Work"
)

// Purposes lists every purpose in selector order.
var Purposes = []Purpose{LabPractical, ProjectWork}

// Valid reports whether p is one of the known purposes.
func (p Purpose) Valid() bool {
	for _, known := range Purposes {
		if p == known {
			return true
		}
	}
	return false
}

// AttendanceRecord is a single lab visit. It is created by a student login
// and resolved exactly once by the matching logout.
type AttendanceRecord struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"-"`
	RegisterNumber string     `gorm:"size:64;not null;index" json:"register_number"`
	Programme      Programme  `gorm:"size:64;not null" json:"programme"`
	Year           Year       `gorm:"size:8;not null" json:"year"`
	Purpose        Purpose    `gorm:"size:32;not null" json:"purpose"`
	LoginTime      time.Time  `gorm:"not null;index" json:"login_time"`
	LogoutTime     *time.Time `json:"logout_time"`
}

// Open reports whether the visit has not been logged out yet.
func (r AttendanceRecord) Open() bool {
	return r.LogoutTime == nil
}
