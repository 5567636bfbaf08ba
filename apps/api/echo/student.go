package echoapi

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/meshwar/roster/core"
	"github.com/meshwar/roster/core/student"
)

var errInvalidCSVFile = "please select a valid CSV file"

type studentApi struct {
	svc  *student.Service
	conf *core.Config
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *student.Service, conf *core.Config) {
	api := studentApi{svc: svc, conf: conf}

	sg := g.Group("/students", jwt)

	// any authenticated session may view, import and export
	sg.GET("", api.query)
	sg.GET("/grades", api.queryGrades)
	sg.GET("/stats", api.stats)
	sg.GET("/siblings", api.siblingGroups)
	sg.GET("/export", api.export)
	sg.POST("/import", api.importCSV)

	// only admin mutates
	sg.POST("", api.create, adminMiddleware())

	dg := sg.Group("/:id", adminMiddleware())
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
	dg.PUT("/attendance", api.markAttendance)
}

// Handlers

// query returns one page of the filtered, searched roster.
func (api *studentApi) query(ctx echo.Context) error {
	var q ViewQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to ViewQuery")
	}
	q.Clean()

	res := q.View(api.conf).Apply(api.svc.All())
	return ctx.JSON(http.StatusOK, res)
}

func (api *studentApi) queryGrades(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, student.Grades)
}

// stats computes the dashboard aggregates over the filtered set (not the
// full roster, and not just the current page).
func (api *studentApi) stats(ctx echo.Context) error {
	var q ViewQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to ViewQuery")
	}
	q.Clean()

	filtered := q.View(api.conf).Filter(api.svc.All())
	return ctx.JSON(http.StatusOK, StatsResponse{
		Date:     q.Date,
		Stats:    student.ComputeStats(filtered, q.Date),
		Advanced: student.ComputeAdvancedStats(filtered),
	})
}

// siblingGroups detects families: the grade filter narrows the candidate set,
// the search term narrows the resulting groups (by mobile or member name).
func (api *studentApi) siblingGroups(ctx echo.Context) error {
	var q ViewQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to ViewQuery")
	}
	q.Clean()

	candidates := student.View{Grade: q.Grade}.Filter(api.svc.All())
	return ctx.JSON(http.StatusOK, student.SiblingGroups(candidates, q.Search))
}

func (api *studentApi) export(ctx echo.Context) error {
	var q ViewQuery
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to ViewQuery")
	}
	q.Clean()

	filtered := q.View(api.conf).Filter(api.svc.All())
	filename, csvText := student.ExportView(filtered, q.Date)

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(csvText))
}

// importCSV replaces the whole roster with the uploaded file's records.
// A file yielding zero valid rows leaves the roster unchanged.
func (api *studentApi) importCSV(ctx echo.Context) error {
	file, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: errInvalidCSVFile})
	}
	if file.Header.Get("Content-Type") != "text/csv" && !strings.HasSuffix(strings.ToLower(file.Filename), ".csv") {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: errInvalidCSVFile})
	}

	src, err := file.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = src.Close() }()

	text, err := io.ReadAll(src)
	if err != nil {
		return errors.Wrap(err, "reading uploaded file")
	}

	records, err := student.ParseCSV(string(text))
	if err != nil {
		// student.ErrEmptyRoster: empty or unformatted file, roster kept as is
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: err.Error()})
	}

	api.svc.ReplaceAll(records)
	return ctx.JSON(http.StatusOK, echo.Map{"imported": len(records)})
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	s := api.svc.Add(data)
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	// unknown ids are a silent no-op: the UI only hands out ids it was given
	api.svc.Update(ctx.Param("id"), data)
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	api.svc.Remove(ctx.Param("id"))
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) markAttendance(ctx echo.Context) error {
	var data student.MarkAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkAttendance")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	api.svc.MarkAttendance(ctx.Param("id"), data.Date, data.Status)
	return ctx.NoContent(http.StatusNoContent)
}

// StatsResponse bundles the primary and secondary dashboard aggregates.
type StatsResponse struct {
	Date     string                `json:"date"`
	Stats    student.Stats         `json:"stats"`
	Advanced student.AdvancedStats `json:"advanced"`
}
