package student

import "strings"

// Grade vocabulary, in canonical display/sort order (first through ninth).
var ValidGrades = []string{
	"الاول",
	"الثاني",
	"الثالث",
	"الرابع",
	"الخامس",
	"السادس",
	"السابع",
	"الثامن",
	"التاسع",
}

const (
	// GradeUnclassified is the sentinel for any grade outside the vocabulary.
	GradeUnclassified = "غير مصنف"

	// GradeAll is the filter sentinel meaning "no grade filter".
	GradeAll = "الكل"
)

// Grades is the full filter-tab list served to clients.
var Grades = allGrades()

func allGrades() []string {
	all := make([]string, 0, len(ValidGrades)+2)
	all = append(all, GradeAll)
	all = append(all, ValidGrades...)
	all = append(all, GradeUnclassified)
	return all
}

// gradeTypos corrects known input corruptions before vocabulary lookup.
var gradeTypos = map[string]string{
	"السابغ": "السابع",
}

// NormalizeGrade maps a free-text grade to the vocabulary or the sentinel.
// Total: any input produces a valid member.
func NormalizeGrade(raw string) string {
	grade := strings.TrimSpace(raw)
	if corrected, ok := gradeTypos[grade]; ok {
		grade = corrected
	}
	for _, valid := range ValidGrades {
		if grade == valid {
			return grade
		}
	}
	return GradeUnclassified
}
