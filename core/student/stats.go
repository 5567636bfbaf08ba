package student

import (
	"math"
	"sort"
	"strings"
)

type (
	// Stats are the dashboard counters for one attendance date,
	// computed over the filtered set (not the full roster).
	Stats struct {
		Total      int `json:"total"`
		Present    int `json:"present"`
		Absent     int `json:"absent"`
		Marked     int `json:"marked"`
		PresentPct int `json:"present_pct"`
		AbsentPct  int `json:"absent_pct"`
		MarkedPct  int `json:"marked_pct"`
	}

	GradeCount struct {
		Grade string `json:"grade"`
		Count int    `json:"count"`
	}

	GenderSplit struct {
		Males      int `json:"males"`
		Females    int `json:"females"`
		MalesPct   int `json:"males_pct"`
		FemalesPct int `json:"females_pct"`
	}

	// AdvancedStats backs the secondary dashboard panels.
	AdvancedStats struct {
		GradeDistribution []GradeCount `json:"grade_distribution"`
		Gender            GenderSplit  `json:"gender"`
		Siblings          int          `json:"siblings"`
		SiblingsPct       int          `json:"siblings_pct"`
	}

	// SiblingGroup is a set of >= 2 records sharing a normalized mobile key.
	SiblingGroup struct {
		Mobile   string    `json:"mobile"`
		Students []Student `json:"students"`
	}
)

// percentage rounds to the nearest integer; a zero total yields 0.
func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// ComputeStats counts present/absent markings for date over records. Marked
// counts every record carrying any status for the date, known or not.
func ComputeStats(records []Student, date string) Stats {
	stats := Stats{Total: len(records)}
	for _, s := range records {
		status := s.Attendance[date]
		if status != "" {
			stats.Marked++
		}
		switch status {
		case StatusPresent:
			stats.Present++
		case StatusAbsent:
			stats.Absent++
		}
	}
	stats.PresentPct = percentage(stats.Present, stats.Total)
	stats.AbsentPct = percentage(stats.Absent, stats.Total)
	stats.MarkedPct = percentage(stats.Marked, stats.Total)
	return stats
}

// ComputeAdvancedStats derives the grade histogram (canonical grade order,
// unclassified last, zero counts omitted), the gender split and the declared
// siblings share over records.
func ComputeAdvancedStats(records []Student) AdvancedStats {
	counts := make(map[string]int, len(ValidGrades)+1)
	var males, females, siblings int
	for _, s := range records {
		counts[s.Grade]++
		switch s.Gender {
		case GenderMale:
			males++
		case GenderFemale:
			females++
		}
		if s.HasSiblings == SiblingsYes {
			siblings++
		}
	}

	dist := make([]GradeCount, 0, len(counts))
	for _, grade := range append(append([]string{}, ValidGrades...), GradeUnclassified) {
		if n := counts[grade]; n > 0 {
			dist = append(dist, GradeCount{Grade: grade, Count: n})
		}
	}

	total := len(records)
	return AdvancedStats{
		GradeDistribution: dist,
		Gender: GenderSplit{
			Males:      males,
			Females:    females,
			MalesPct:   percentage(males, males+females),
			FemalesPct: percentage(females, males+females),
		},
		Siblings:    siblings,
		SiblingsPct: percentage(siblings, total),
	}
}

// SiblingGroups groups records that declared siblings by their mobile number
// (digits only, so formatting variations land in the same family), keeps
// groups of two or more, and sorts them by size descending. A non-empty search
// term keeps only groups whose mobile or any member name contains it.
func SiblingGroups(records []Student, search string) []SiblingGroup {
	byMobile := make(map[string][]Student)
	keys := make([]string, 0)
	for _, s := range records {
		if strings.TrimSpace(s.HasSiblings) != SiblingsYes || strings.TrimSpace(s.Mobile) == "" {
			continue
		}
		key := digitsOnly(s.Mobile)
		if key == "" {
			continue
		}
		if _, seen := byMobile[key]; !seen {
			keys = append(keys, key)
		}
		byMobile[key] = append(byMobile[key], s)
	}

	groups := make([]SiblingGroup, 0, len(byMobile))
	for _, key := range keys {
		members := byMobile[key]
		if len(members) < 2 {
			continue
		}
		groups = append(groups, SiblingGroup{Mobile: members[0].Mobile, Students: members})
	}
	sort.SliceStable(groups, func(i, j int) bool { return len(groups[i].Students) > len(groups[j].Students) })

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return groups
	}
	matched := groups[:0]
	for _, g := range groups {
		if strings.Contains(strings.ToLower(g.Mobile), search) {
			matched = append(matched, g)
			continue
		}
		for _, s := range g.Students {
			if strings.Contains(strings.ToLower(s.FullName), search) {
				matched = append(matched, g)
				break
			}
		}
	}
	return matched
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
