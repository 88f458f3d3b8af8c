package echoweb

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darsban/core"
	"github.com/trezcool/darsban/core/chart"
	"github.com/trezcool/darsban/core/gradebook"
)

const (
	tabGrades = "grades"
	tabStats  = "stats"
	// tabReports is shared with the admin panel
)

type (
	teacherForms struct {
		Score  gradebook.NewScore
		Import *gradebook.ImportResult
	}

	teacherData struct {
		teacherForms
		Roster gradebook.Roster
		Grades []int
		Today  string

		Students []string
		Selected string
		Card     gradebook.ReportCard
		Progress string // svg

		Averages      []gradebook.SubjectAverage
		AveragesChart string // svg
	}
)

func (d *dashboard) teacherPanel(ctx echo.Context, p *page, code int, forms teacherForms) error {
	reqCtx := ctx.Request().Context()
	grades := d.deps.Gradebook

	switch p.Tab {
	case tabGrades, tabReports, tabStats:
	default:
		p.Tab = tabGrades
	}

	roster := grades.Roster()
	data := teacherData{
		teacherForms: forms,
		Roster:       roster,
		Grades:       roster.Grades(),
		Today:        core.Today(d.auth.nowFunc),
	}
	if data.Score.Date == "" {
		data.Score.Date = data.Today
	}

	if id := ctx.QueryParam("recorded"); id != "" && p.Flash == "" {
		scores, err := grades.All(reqCtx)
		if err != nil {
			return errors.Wrap(err, "querying scores")
		}
		for _, s := range scores {
			if s.ID == id {
				p.Flash = p.L.T("Grade %d recorded for %s in %s", s.Grade, s.Student, s.Subject)
				break
			}
		}
	}

	switch p.Tab {
	case tabReports:
		students, err := grades.Students(reqCtx)
		if err != nil {
			return errors.Wrap(err, "listing students")
		}
		data.Students = students
		data.Selected = core.CleanString(ctx.QueryParam("student"))
		if data.Selected == "" && len(students) > 0 {
			data.Selected = students[0]
		}
		if data.Selected != "" {
			if data.Card, err = grades.ReportCard(reqCtx, data.Selected); err != nil {
				return errors.Wrap(err, "computing report card")
			}
			data.Progress = progressChart(p, data.Card)
		}

	case tabStats:
		averages, err := grades.ClassAverages(reqCtx)
		if err != nil {
			return errors.Wrap(err, "computing class averages")
		}
		data.Averages = averages
		data.AveragesChart = averagesChart(p, averages)
	}

	p.Title = p.L.T("Teacher panel: %s", p.User.Name)
	return d.render(ctx, code, "dashboard", dashboardPage(p, teacherView(p, data)))
}

func progressChart(p *page, card gradebook.ReportCard) string {
	series := make([]chart.Series, 0, len(card.Progress))
	for _, prog := range card.Progress {
		s := chart.Series{Label: prog.Subject}
		for _, pt := range prog.Points {
			s.Points = append(s.Points, chart.Point{X: pt.Date, Y: float64(pt.Grade)})
		}
		series = append(series, s)
	}
	return chart.LineChart(series, chart.Options{
		Title:  p.L.T("Progress of %s", card.Student),
		XLabel: p.L.T("Date"),
		YLabel: p.L.T("Grade"),
		RTL:    p.L.RTL(),
		YMax:   gradebook.MaxGrade,
	})
}

func averagesChart(p *page, averages []gradebook.SubjectAverage) string {
	bars := make([]chart.Bar, len(averages))
	for i, avg := range averages {
		bars[i] = chart.Bar{Label: avg.Subject, Value: avg.Average}
	}
	return chart.BarChart(bars, chart.Options{
		Title:  p.L.T("Average grades per subject"),
		XLabel: p.L.T("Subject"),
		YLabel: p.L.T("Average grade"),
		RTL:    p.L.RTL(),
		YMax:   gradebook.MaxGrade,
	})
}

func (d *dashboard) recordScore(ctx echo.Context) error {
	p, err := d.userPage(ctx)
	if err != nil {
		return err
	}
	p.Tab = tabGrades

	var data gradebook.NewScore
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewScore")
	}

	grades := d.deps.Gradebook
	if err := data.Validate(d.deps.Validate, grades.Roster()); err != nil {
		fields, ok := d.formErrors(err)
		if !ok {
			return errors.Wrap(err, "validating NewScore")
		}
		p.Errors = fields
		return d.teacherPanel(ctx, p, http.StatusBadRequest, teacherForms{Score: data})
	}

	score, err := grades.Record(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording score")
	}

	q := url.Values{"tab": {tabGrades}, "recorded": {score.ID}}
	return ctx.Redirect(http.StatusSeeOther, "/?"+q.Encode())
}

func (d *dashboard) importScores(ctx echo.Context) error {
	p, err := d.userPage(ctx)
	if err != nil {
		return err
	}
	p.Tab = tabGrades

	fh, err := ctx.FormFile("file")
	if err != nil {
		p.Errors["file"] = "this field is required"
		return d.teacherPanel(ctx, p, http.StatusBadRequest, teacherForms{})
	}
	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer file.Close()

	res, err := d.deps.Gradebook.Import(ctx.Request().Context(), file, d.deps.Validate, d.deps.Translator)
	if err != nil {
		fields, ok := d.formErrors(err)
		if !ok {
			return errors.Wrap(err, "importing scores")
		}
		p.Errors = fields
		return d.teacherPanel(ctx, p, http.StatusBadRequest, teacherForms{})
	}

	p.Flash = p.L.T("%d grades imported, %d rows skipped", len(res.Imported), len(res.Skipped))
	return d.teacherPanel(ctx, p, http.StatusOK, teacherForms{Import: &res})
}
