package student

import (
	"fmt"
	"strings"
)

// DefaultPageSize matches the original roster table's fixed page size.
const DefaultPageSize = 50

// View holds the derived-view inputs. Outputs are recomputed deterministically
// from (collection, Grade, Search, Page) on every read; no caching.
type View struct {
	Grade    string
	Search   string
	Page     int
	PageSize int
}

// Result is one page of the filtered and searched roster.
type Result struct {
	Students   []Student `json:"students"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
}

// Filter applies the grade-filter and global-search stages, in that order.
func (v View) Filter(records []Student) []Student {
	filtered := make([]Student, 0, len(records))
	search := strings.ToLower(strings.TrimSpace(v.Search))
	for _, s := range records {
		if v.Grade != "" && v.Grade != GradeAll && s.Grade != v.Grade {
			continue
		}
		if search != "" && !matches(s, search) {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

// matches reports whether any field's string form contains the lowercased term.
// The attendance map participates via its fmt form, so date keys and statuses
// are searchable too (legacy quirk of searching every field, kept on purpose).
func matches(s Student, search string) bool {
	fields := []string{
		s.ID, s.Timestamp, s.FullName, s.StudentID, s.Gender,
		s.Grade, s.Mobile, s.HasSiblings, s.NearestLandmark,
		fmt.Sprint(s.Attendance),
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// Apply runs the full pipeline: grade filter, global search, pagination.
// Pages are 1-based and fixed-size; an out-of-range page yields an empty slice.
func (v View) Apply(records []Student) Result {
	filtered := v.Filter(records)

	size := v.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	page := v.Page
	if page < 1 {
		page = 1
	}

	total := len(filtered)
	totalPages := (total + size - 1) / size

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Result{
		Students:   filtered[start:end],
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	}
}
