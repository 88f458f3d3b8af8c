package gradebook

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/darsban/core"
)

const (
	utf8BOM    = "\ufeff"
	reportBase = "report-card_"

	CSVContentType  = "text/csv; charset=utf-8"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	reportSheet = "Report card"
	distCol     = "G" // distribution table: subject in G, count in H
)

var (
	header = []string{"student", "subject", "grade", "date"}

	errNotWorkbook = "not a readable xlsx workbook"
)

// ReportFilename is the download name of a student's report card.
func ReportFilename(student, ext string) string {
	return reportBase + strings.ReplaceAll(student, " ", "_") + "." + ext
}

// WriteCSV writes scores as UTF-8 CSV, prefixed with a byte order mark so
// spreadsheet apps pick the right encoding for non-latin names.
func WriteCSV(w io.Writer, scores []Score) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return errors.Wrap(err, "writing BOM")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for _, s := range scores {
		if err := cw.Write(s.csvRecord()); err != nil {
			return errors.Wrap(err, "writing score")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing csv")
}

// WriteXLSX writes the report card as a workbook: the score rows, the
// summary and a pie chart of the subject distribution.
func WriteXLSX(w io.Writer, card ReportCard, rtl bool) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("closing workbook: %v", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return errors.Wrap(err, "naming sheet")
	}
	if err := f.SetSheetView(reportSheet, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return errors.Wrap(err, "setting sheet view")
	}

	setRow := func(row int, values ...interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(reportSheet, cell, &values)
	}

	if err := setRow(1, "student", "subject", "grade", "date"); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for i, s := range card.Scores {
		if err := setRow(i+2, s.Student, s.Subject, s.Grade, s.Date); err != nil {
			return errors.Wrap(err, "writing score")
		}
	}

	summaryRow := len(card.Scores) + 3
	if err := setRow(summaryRow, "average", card.Average); err != nil {
		return errors.Wrap(err, "writing average")
	}
	if err := setRow(summaryRow+1, "best subject", card.BestSubject); err != nil {
		return errors.Wrap(err, "writing best subject")
	}

	if len(card.Distribution) == 0 {
		_, err := f.WriteTo(w)
		return errors.Wrap(err, "writing workbook")
	}

	if err := f.SetSheetRow(reportSheet, distCol+"1", &[]interface{}{"subject", "count"}); err != nil {
		return errors.Wrap(err, "writing distribution header")
	}
	for i, d := range card.Distribution {
		cell := fmt.Sprintf("%s%d", distCol, i+2)
		if err := f.SetSheetRow(reportSheet, cell, &[]interface{}{d.Subject, d.Count}); err != nil {
			return errors.Wrap(err, "writing distribution")
		}
	}

	last := len(card.Distribution) + 1
	ref := func(col string) string { return fmt.Sprintf("'%s'!$%s$2:$%s$%d", reportSheet, col, col, last) }
	chart := &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$H$1", reportSheet),
			Categories: ref(distCol),
			Values:     ref("H"),
		}},
		Title:    []excelize.RichTextRun{{Text: card.Student}},
		PlotArea: excelize.ChartPlotArea{ShowPercent: true},
	}
	if err := f.AddChart(reportSheet, "J2", chart); err != nil {
		return errors.Wrap(err, "adding chart")
	}

	_, err := f.WriteTo(w)
	return errors.Wrap(err, "writing workbook")
}

// ImportRow is one data row of an imported workbook.
type ImportRow struct {
	Row   int
	Score NewScore
	Err   error
}

// ReadXLSX reads grades from the first sheet of a workbook. Columns are
// student, subject, grade and an optional date; the first row is a header.
// Blank rows are ignored. Cells are read raw: a date cell holds an Excel
// serial number and a grade may be a whole float such as 4.0.
func ReadXLSX(r io.Reader) ([]ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, core.NewValidationError(errors.Wrap(err, "opening workbook"), core.FieldError{Field: "file", Error: errNotWorkbook})
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("closing workbook: %v", err)
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, core.NewFieldValidationError("file", errNotWorkbook)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "reading rows of sheet %q", sheet)
	}
	var date1904 bool
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	var out []ImportRow
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		cols := make([]string, 4)
		for j := 0; j < len(row) && j < len(cols); j++ {
			cols[j] = strings.TrimSpace(row[j])
		}
		if strings.Join(cols, "") == "" {
			continue
		}

		ir := ImportRow{Row: i + 1, Score: NewScore{Student: cols[0], Subject: cols[1], Date: cellDate(cols[3], date1904)}}
		grade, ok := cellGrade(cols[2])
		if !ok {
			ir.Err = fmt.Errorf("invalid grade %q", cols[2])
		}
		ir.Score.Grade = grade
		out = append(out, ir)
	}
	return out, nil
}

// cellGrade parses a grade cell; whole floats are accepted.
func cellGrade(v string) (int, bool) {
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// cellDate turns an Excel date serial into a DateLayout string. Anything
// else is returned as is and left to validation.
func cellDate(v string, date1904 bool) string {
	serial, err := strconv.ParseFloat(v, 64)
	if err != nil || serial <= 0 {
		return v
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return v
	}
	return t.Format(core.DateLayout)
}
