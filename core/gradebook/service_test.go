package gradebook_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/darsban/core"
	"github.com/trezcool/darsban/core/gradebook"
	inmemdb "github.com/trezcool/darsban/storage/database/inmem"
	"github.com/trezcool/darsban/storage/demo"
)

func setup(t *testing.T) *gradebook.Service {
	svc := gradebook.NewService(inmemdb.NewScoreRepository(inmemdb.Open()), demo.Roster)
	scores := make([]gradebook.Score, len(demo.Scores))
	copy(scores, demo.Scores)
	_, err := svc.Load(context.Background(), scores...)
	require.NoError(t, err)
	return svc
}

func newValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	return validate, translator
}

func fieldErrors(t *testing.T, err error, translator ut.Translator) map[string]string {
	switch vErr := err.(type) {
	case validator.ValidationErrors:
		return core.TranslateErrors(vErr, translator)
	case *core.ValidationError:
		return vErr.FieldMap()
	default:
		t.Fatalf("unexpected error: %v", err)
		return nil
	}
}

func newWorkbook(t *testing.T, rows ...[]interface{}) []byte {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestService_ReportCard(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	card, err := svc.ReportCard(ctx, "علی محمدی")
	require.NoError(t, err)
	assert.Len(t, card.Scores, 3)
	assert.InDelta(t, 3.0, card.Average, 1e-9)
	assert.Equal(t, "ریاضی", card.BestSubject)

	card, err = svc.ReportCard(ctx, "مریم حسینی")
	require.NoError(t, err)
	assert.True(t, card.Empty())

	card, err = svc.ReportCard(ctx, "")
	require.NoError(t, err)
	assert.True(t, card.Empty())
}

func TestService_ClassAverages(t *testing.T) {
	svc := setup(t)

	avgs, err := svc.ClassAverages(context.Background())
	require.NoError(t, err)
	require.Len(t, avgs, 3)
	assert.InDelta(t, 10.0/3, avgs[1].Average, 1e-9)
}

func TestService_Students(t *testing.T) {
	svc := setup(t)

	students, err := svc.Students(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"علی محمدی", "رضا کریمی", "سارا احمدی"}, students)
}

func TestService_Record(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	score, err := svc.Record(ctx, gradebook.NewScore{Student: "مریم حسینی", Subject: "هنر", Grade: 4})
	require.NoError(t, err)
	assert.NotEmpty(t, score.ID)
	assert.Equal(t, core.Today(time.Now), score.Date)

	scores, err := svc.Query(ctx, gradebook.QueryFilter{Subject: "هنر"})
	require.NoError(t, err)
	assert.Equal(t, []gradebook.Score{score}, scores)
}

func TestNewScore_Validate(t *testing.T) {
	validate, translator := newValidator()

	tests := []struct {
		name    string
		ns      gradebook.NewScore
		wantErr map[string]string
	}{
		{
			name: "valid",
			ns:   gradebook.NewScore{Student: " علی محمدی ", Subject: "علوم", Grade: 4, Date: "2024-03-01"},
		},
		{
			name:    "missing fields",
			ns:      gradebook.NewScore{},
			wantErr: map[string]string{"student": "this field is required", "subject": "this field is required", "grade": "this field is required"},
		},
		{
			name:    "grade out of range",
			ns:      gradebook.NewScore{Student: "علی محمدی", Subject: "علوم", Grade: 5},
			wantErr: map[string]string{"grade": "grade must be 4 or less"},
		},
		{
			name:    "bad date",
			ns:      gradebook.NewScore{Student: "علی محمدی", Subject: "علوم", Grade: 2, Date: "01/03/2024"},
			wantErr: map[string]string{"date": "date does not match the 2006-01-02 format"},
		},
		{
			name:    "not on the roster",
			ns:      gradebook.NewScore{Student: "بهرام", Subject: "شیمی", Grade: 2},
			wantErr: map[string]string{"student": "unknown student", "subject": "unknown subject"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ns.Validate(validate, demo.Roster)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantErr, fieldErrors(t, err, translator))
		})
	}

	t.Run("cleans input", func(t *testing.T) {
		ns := gradebook.NewScore{Student: " علی محمدی ", Subject: "علوم ", Grade: 3}
		require.NoError(t, ns.Validate(validate, demo.Roster))
		assert.Equal(t, "علی محمدی", ns.Student)
		assert.Equal(t, "علوم", ns.Subject)
	})
}

func TestService_Import(t *testing.T) {
	svc := setup(t)
	validate, translator := newValidator()
	ctx := context.Background()

	data := newWorkbook(t,
		[]interface{}{"student", "subject", "grade", "date"},
		[]interface{}{"رضا کریمی", "علوم", 3, "2024-03-02"},
		[]interface{}{},
		[]interface{}{"رضا کریمی", "شیمی", 3, "2024-03-02"},
		[]interface{}{"سارا احمدی", "ریاضی", "lol", ""},
		[]interface{}{"سارا احمدی", "هنر", 2, ""},
		[]interface{}{"سارا احمدی", "علوم", 2, "01/03/2024"},
		[]interface{}{"بهرام", "شیمی", 1, ""},
		[]interface{}{"رضا کریمی", "ریاضی", 7, ""},
	)

	res, err := svc.Import(ctx, bytes.NewReader(data), validate, translator)
	require.NoError(t, err)
	require.Len(t, res.Imported, 2)
	assert.Equal(t, "2024-03-02", res.Imported[0].Date)
	assert.Equal(t, []gradebook.RowError{
		{Row: 4, Reason: "subject: unknown subject"},
		{Row: 5, Reason: `invalid grade "lol"`},
		{Row: 7, Reason: "date: date does not match the 2006-01-02 format"},
		{Row: 8, Reason: "student: unknown student; subject: unknown subject"},
		{Row: 9, Reason: "grade: grade must be 4 or less"},
	}, res.Skipped)

	scores, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, scores, len(demo.Scores)+2)

	t.Run("typed cells", func(t *testing.T) {
		data := newWorkbook(t,
			[]interface{}{"student", "subject", "grade", "date"},
			[]interface{}{"مریم حسینی", "علوم", 4.0, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
			[]interface{}{"مریم حسینی", "هنر", 2.5, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		)

		res, err := svc.Import(ctx, bytes.NewReader(data), validate, translator)
		require.NoError(t, err)
		require.Len(t, res.Imported, 1)
		assert.Equal(t, "2024-03-01", res.Imported[0].Date)
		assert.Equal(t, 4, res.Imported[0].Grade)
		assert.Equal(t, []gradebook.RowError{{Row: 3, Reason: `invalid grade "2.5"`}}, res.Skipped)
	})

	t.Run("not a workbook", func(t *testing.T) {
		_, err := svc.Import(ctx, strings.NewReader("lol"), validate, translator)
		require.Error(t, err)
		vErr, ok := err.(*core.ValidationError)
		require.True(t, ok, "got %T", err)
		assert.Equal(t, map[string]string{"file": "not a readable xlsx workbook"}, vErr.FieldMap())
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, gradebook.WriteCSV(&buf, demo.Scores[:3]))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "\ufeff"), "missing byte order mark")

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\ufeff"))).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"student", "subject", "grade", "date"},
		{"علی محمدی", "ریاضی", "4", "2024-01-15"},
		{"علی محمدی", "ریاضی", "3", "2024-02-20"},
		{"علی محمدی", "علوم", "2", "2024-01-10"},
	}, records)

	t.Run("no scores", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, gradebook.WriteCSV(&buf, nil))
		assert.Equal(t, "\ufeffstudent,subject,grade,date\n", buf.String())
	})
}

func TestWriteXLSX(t *testing.T) {
	card := gradebook.NewReportCard("علی محمدی", demo.Scores[:3])

	var buf bytes.Buffer
	require.NoError(t, gradebook.WriteXLSX(&buf, card, true))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	sheet := f.GetSheetName(0)
	assert.Equal(t, "Report card", sheet)

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 6)
	assert.Equal(t, []string{"student", "subject", "grade", "date"}, rows[0][:4])
	assert.Equal(t, []string{"علی محمدی", "ریاضی", "4", "2024-01-15"}, rows[1][:4])

	avg, err := f.GetCellValue(sheet, "B6")
	require.NoError(t, err)
	assert.Equal(t, "3", avg)
	best, err := f.GetCellValue(sheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, "ریاضی", best)

	subject, err := f.GetCellValue(sheet, "G2")
	require.NoError(t, err)
	assert.Equal(t, "ریاضی", subject)
	count, err := f.GetCellValue(sheet, "H2")
	require.NoError(t, err)
	assert.Equal(t, "2", count)
}

func TestReportFilename(t *testing.T) {
	assert.Equal(t, "report-card_علی_محمدی.csv", gradebook.ReportFilename("علی محمدی", "csv"))
	assert.Equal(t, "report-card_x.xlsx", gradebook.ReportFilename("x", "xlsx"))
}
