package echoweb

import (
	"bytes"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darsban/core/chart"
	"github.com/trezcool/darsban/core/gradebook"
)

type studentData struct {
	Card  gradebook.ReportCard
	Chart string // svg
}

func (d *dashboard) studentPanel(ctx echo.Context, p *page) error {
	card, err := d.deps.Gradebook.ReportCard(ctx.Request().Context(), p.User.StudentName())
	if err != nil {
		return errors.Wrap(err, "computing report card")
	}

	data := studentData{Card: card}
	if !card.Empty() {
		slices := make([]chart.Slice, len(card.Distribution))
		for i, sc := range card.Distribution {
			slices[i] = chart.Slice{Label: sc.Subject, Value: float64(sc.Count)}
		}
		data.Chart = chart.PieChart(slices, chart.Options{
			Title: p.L.T("Grade distribution across subjects"),
			RTL:   p.L.RTL(),
		})
	}

	p.Title = p.L.T("Student panel: %s", p.User.StudentName())
	return d.render(ctx, http.StatusOK, "dashboard", dashboardPage(p, studentView(p, data)))
}

// contextReportCard is the report card of the signed in student; an empty
// card is reported as not found since there is nothing to download.
func (d *dashboard) contextReportCard(ctx echo.Context) (gradebook.ReportCard, error) {
	usr, err := d.auth.contextUser(ctx)
	if err != nil {
		return gradebook.ReportCard{}, err
	}
	card, err := d.deps.Gradebook.ReportCard(ctx.Request().Context(), usr.StudentName())
	if err != nil {
		return gradebook.ReportCard{}, errors.Wrap(err, "computing report card")
	}
	if card.Empty() {
		return gradebook.ReportCard{}, errHttpNotFound
	}
	return card, nil
}

func (d *dashboard) downloadCSV(ctx echo.Context) error {
	card, err := d.contextReportCard(ctx)
	if err != nil {
		return err
	}
	return sendCSV(ctx, card)
}

func (d *dashboard) downloadXLSX(ctx echo.Context) error {
	card, err := d.contextReportCard(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := gradebook.WriteXLSX(&buf, card, contextLocale(ctx).RTL()); err != nil {
		return errors.Wrap(err, "writing report card workbook")
	}
	setAttachment(ctx, gradebook.ReportFilename(card.Student, "xlsx"))
	return ctx.Blob(http.StatusOK, gradebook.XLSXContentType, buf.Bytes())
}

func sendCSV(ctx echo.Context, card gradebook.ReportCard) error {
	var buf bytes.Buffer
	if err := gradebook.WriteCSV(&buf, card.Scores); err != nil {
		return errors.Wrap(err, "writing report card csv")
	}
	setAttachment(ctx, gradebook.ReportFilename(card.Student, "csv"))
	return ctx.Blob(http.StatusOK, gradebook.CSVContentType, buf.Bytes())
}

// setAttachment names the download; the plain filename is a fallback for
// clients without RFC 5987 support.
func setAttachment(ctx echo.Context, filename string) {
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="report-card`+filepath.Ext(filename)+`"; filename*=UTF-8''`+url.PathEscape(filename))
}
