package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/trezcool/darsban/core/gradebook"
)

const (
	formatCSV  = "csv"
	formatXLSX = "xlsx"
)

var errNoGrades = errors.New("no grades recorded for this student")

func (cli *commandLine) writeReport(student, format, out string) error {
	if format != formatCSV && format != formatXLSX {
		return fmt.Errorf("unknown format %q: must be %s or %s", format, formatCSV, formatXLSX)
	}

	card, err := cli.app.Gradebook.ReportCard(context.Background(), student)
	if err != nil {
		return err
	}
	if card.Empty() {
		return errNoGrades
	}

	if out == "" {
		return writeCard(cli.out, card, format)
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := writeCard(f, card, format); err != nil {
		_ = f.Close()
		return err
	}
	// the workbook is only complete once the file is closed
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", out)
	}
	fmt.Fprintf(cli.out, "report card of %s written to %s\n", student, out)
	return nil
}

func writeCard(w io.Writer, card gradebook.ReportCard, format string) error {
	if format == formatXLSX {
		return gradebook.WriteXLSX(w, card, true)
	}
	return gradebook.WriteCSV(w, card.Scores)
}
