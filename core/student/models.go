package student

import (
	"github.com/meshwar/roster/core"
)

// Genders (free-text cohort markers, not validated)
const (
	GenderMale   = "ذكر"
	GenderFemale = "انثى"
)

// Attendance statuses
const (
	StatusPresent = "حاضر"
	StatusAbsent  = "غائب"
)

// SiblingsYes marks a student declared to have siblings at the center.
const SiblingsYes = "نعم"

// Student is one roster record. JSON keys match the legacy stored format so a
// roster dumped by the original front-end loads as-is.
type Student struct {
	ID              string            `json:"id"`
	Timestamp       string            `json:"timestamp"`
	FullName        string            `json:"fullName"`
	StudentID       string            `json:"studentId"`
	Gender          string            `json:"gender"`
	Grade           string            `json:"grade"`
	Mobile          string            `json:"mobile"`
	HasSiblings     string            `json:"hasSiblings"`
	NearestLandmark string            `json:"nearestLandmark"`
	Attendance      map[string]string `json:"attendance"`
}

func (s Student) clone() Student {
	att := make(map[string]string, len(s.Attendance))
	for date, status := range s.Attendance {
		att[date] = status
	}
	s.Attendance = att
	return s
}

// NewStudent contains information needed to create a new Student.
// Only the full name is required; everything else is free text by contract.
type NewStudent struct {
	Timestamp       string `json:"timestamp"`
	FullName        string `json:"fullName" validate:"required"`
	StudentID       string `json:"studentId"`
	Gender          string `json:"gender"`
	Grade           string `json:"grade"`
	Mobile          string `json:"mobile"`
	HasSiblings     string `json:"hasSiblings"`
	NearestLandmark string `json:"nearestLandmark"`
}

func (ns *NewStudent) Validate() error {
	ns.FullName = core.CleanString(ns.FullName)
	return core.Validate.Struct(ns)
}

// UpdateStudent defines what may be provided to modify an existing Student.
// The id and the attendance map are never touched by this path.
type UpdateStudent struct {
	Timestamp       string `json:"timestamp"`
	FullName        string `json:"fullName" validate:"required"`
	StudentID       string `json:"studentId"`
	Gender          string `json:"gender"`
	Grade           string `json:"grade"`
	Mobile          string `json:"mobile"`
	HasSiblings     string `json:"hasSiblings"`
	NearestLandmark string `json:"nearestLandmark"`
}

func (us *UpdateStudent) Validate() error {
	us.FullName = core.CleanString(us.FullName)
	return core.Validate.Struct(us)
}

// MarkAttendance is the payload for a single attendance upsert.
type MarkAttendance struct {
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Status string `json:"status" validate:"required,attstatus"`
}

func (ma *MarkAttendance) Validate() error {
	ma.Date = core.CleanString(ma.Date)
	ma.Status = core.CleanString(ma.Status)
	return core.Validate.Struct(ma)
}
