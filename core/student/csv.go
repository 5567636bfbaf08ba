package student

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyRoster is returned by ParseCSV when no valid student rows remain.
// Callers decide whether this is fatal for their action.
var ErrEmptyRoster = errors.New("CSV contains no student rows")

// CSV column labels (exact-match, fixed order on export).
// The landmark column must be declared last: its value swallows the rest of
// the row (see parse), so any column after it is unreachable.
const (
	hdrTimestamp = "طابع زمني"
	hdrFullName  = "اسم الطالب رباعي"
	hdrStudentID = "رقم الهوية الطالب"
	hdrGender    = "جنس الطالب"
	hdrGrade     = "الطالب في الصف"
	hdrMobile    = "رقم الموبايل"
	hdrSiblings  = "هل له اخوة في نفس المركز؟"
	hdrLandmark  = "ماهو أقرب معلم؟"

	attendanceHdrFmt = "حالة الحضور (%s)"

	bom = "\uFEFF"
)

// ParseCSV parses raw CSV text into student records. The first line is the
// header row; header cells map positionally to record fields and unknown
// headers are ignored. Rows without a full name are dropped as blank/malformed.
// Every parsed row gets a fresh id and an empty attendance map.
func ParseCSV(text string) ([]Student, error) {
	text = strings.TrimSpace(strings.TrimPrefix(text, bom))
	lines := strings.Split(text, "\n")

	headers := strings.Split(lines[0], ",")
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	records := make([]Student, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := parseLine(line)

		s := Student{
			ID:         uuid.New().String(),
			Attendance: map[string]string{},
		}
		for i, header := range headers {
			var value string
			if i < len(values) {
				value = values[i]
			}
			switch header {
			case hdrTimestamp:
				s.Timestamp = value
			case hdrFullName:
				s.FullName = value
			case hdrStudentID:
				s.StudentID = value
			case hdrGender:
				s.Gender = value
			case hdrGrade:
				s.Grade = NormalizeGrade(value)
			case hdrMobile:
				s.Mobile = value
			case hdrSiblings:
				// known input corruption: Cyrillic "н" for Arabic "ن"
				s.HasSiblings = strings.ReplaceAll(value, "н", "ن")
			case hdrLandmark:
				// overflow rule: landmark text may contain unescaped commas,
				// so rejoin everything from this column to the end of the row.
				s.NearestLandmark = strings.ReplaceAll(strings.Join(values[min(i, len(values)):], ", "), `"`, "")
			}
		}
		if s.FullName == "" {
			continue
		}
		records = append(records, s)
	}

	if len(records) == 0 {
		return records, ErrEmptyRoster
	}
	return records, nil
}

// parseLine tokenizes one CSV row: a double quote toggles quoted mode unless
// preceded by a backslash; commas split only outside quotes; tokens are trimmed.
func parseLine(line string) []string {
	var values []string
	var current strings.Builder

	runes := []rune(line)
	inQuotes := false
	for i, char := range runes {
		switch {
		case char == '"' && (i == 0 || runes[i-1] != '\\'):
			inQuotes = !inQuotes
		case char == ',' && !inQuotes:
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(char)
		}
	}
	values = append(values, strings.TrimSpace(current.String()))
	return values
}

// SerializeCSV renders records to the canonical CSV format: the 8 core columns
// plus an attendance-status column for dateKey. Every field is quoted, inner
// quotes doubled, and the output carries a UTF-8 BOM for downstream consumers.
func SerializeCSV(records []Student, dateKey string) string {
	headers := []string{
		hdrTimestamp, hdrFullName, hdrStudentID, hdrGender, hdrGrade,
		hdrMobile, hdrSiblings, hdrLandmark, fmt.Sprintf(attendanceHdrFmt, dateKey),
	}

	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, s := range records {
		fields := []string{
			s.Timestamp, s.FullName, s.StudentID, s.Gender, s.Grade,
			s.Mobile, s.HasSiblings, s.NearestLandmark, s.Attendance[dateKey],
		}
		for i, f := range fields {
			fields[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return bom + strings.Join(lines, "\n")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
