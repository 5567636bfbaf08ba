package echoapi

import (
	"time"

	"github.com/meshwar/roster/core"
	"github.com/meshwar/roster/core/student"
)

// ViewQuery carries the derived-view inputs: grade filter, global search,
// page number and the attendance date the caller is looking at.
type ViewQuery struct {
	Search string `query:"search"`
	Grade  string `query:"grade"`
	Page   int    `query:"page"`
	Date   string `query:"date"`
}

func (q *ViewQuery) Clean() {
	q.Search = core.CleanString(q.Search)
	q.Grade = core.CleanString(q.Grade)
	q.Date = core.CleanString(q.Date)
	if q.Grade == "" {
		q.Grade = student.GradeAll
	}
	if q.Date == "" {
		q.Date = formatDate(time.Now())
	}
}

func (q ViewQuery) View(conf *core.Config) student.View {
	return student.View{
		Grade:    q.Grade,
		Search:   q.Search,
		Page:     q.Page,
		PageSize: conf.PageSize,
	}
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02") // YYYY-MM-DD
}
