package gradebook

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darsban/core"
)

var nowFunc = time.Now // mockable

type Service struct {
	repo   Repository
	roster Roster
}

func NewService(repo Repository, roster Roster) *Service {
	return &Service{repo: repo, roster: roster}
}

func (svc *Service) Roster() Roster {
	return svc.roster
}

// Load stores complete score rows as they are, e.g. sample data.
func (svc *Service) Load(ctx context.Context, scores ...Score) ([]Score, error) {
	for i := range scores {
		if scores[i].ID == "" {
			scores[i].ID = uuid.New().String()
		}
	}
	return svc.repo.CreateScores(ctx, scores...)
}

// Record stores a validated grade. An empty date means today.
func (svc *Service) Record(ctx context.Context, ns NewScore) (Score, error) {
	scores, err := svc.RecordMany(ctx, ns)
	if err != nil {
		return Score{}, err
	}
	return scores[0], nil
}

func (svc *Service) RecordMany(ctx context.Context, nss ...NewScore) ([]Score, error) {
	scores := make([]Score, 0, len(nss))
	for _, ns := range nss {
		date := ns.Date
		if date == "" {
			date = core.Today(nowFunc)
		}
		scores = append(scores, Score{
			ID:      uuid.New().String(),
			Student: ns.Student,
			Subject: ns.Subject,
			Grade:   ns.Grade,
			Date:    date,
		})
	}
	return svc.repo.CreateScores(ctx, scores...)
}

type (
	RowError struct {
		Row    int    `json:"row"` // 1-based, as shown by spreadsheet apps
		Reason string `json:"reason"`
	}

	ImportResult struct {
		Imported []Score    `json:"imported"`
		Skipped  []RowError `json:"skipped"`
	}
)

// Import records every valid row of an XLSX workbook and reports the others,
// worded with translator like the grade form errors.
func (svc *Service) Import(ctx context.Context, r io.Reader, validate *validator.Validate, translator ut.Translator) (ImportResult, error) {
	rows, err := ReadXLSX(r)
	if err != nil {
		return ImportResult{}, err
	}

	var res ImportResult
	valid := make([]NewScore, 0, len(rows))
	for _, row := range rows {
		if row.Err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: row.Row, Reason: row.Err.Error()})
			continue
		}
		ns := row.Score
		if err := ns.Validate(validate, svc.roster); err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: row.Row, Reason: rowReason(err, translator)})
			continue
		}
		valid = append(valid, ns)
	}
	if len(valid) > 0 {
		if res.Imported, err = svc.RecordMany(ctx, valid...); err != nil {
			return ImportResult{}, errors.Wrap(err, "recording imported scores")
		}
	}
	return res, nil
}

// rowReason lists the field errors of a rejected row as "field: message",
// fields in name order.
func rowReason(err error, translator ut.Translator) string {
	var fields map[string]string
	switch vErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		fields = core.TranslateErrors(vErr, translator)
	case *core.ValidationError:
		fields = vErr.FieldMap()
	}
	if len(fields) == 0 {
		return err.Error()
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + fields[name]
	}
	return strings.Join(parts, "; ")
}

func (svc *Service) All(ctx context.Context) ([]Score, error) {
	return svc.repo.QueryScores(ctx, QueryFilter{})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Score, error) {
	return svc.repo.QueryScores(ctx, filter)
}

// ScoresOf returns the rows filed under exactly this student name.
func (svc *Service) ScoresOf(ctx context.Context, student string) ([]Score, error) {
	if student == "" {
		return []Score{}, nil
	}
	return svc.repo.QueryScores(ctx, QueryFilter{Student: student})
}

// Students returns the students that have at least one score, in order of first appearance.
func (svc *Service) Students(ctx context.Context) ([]string, error) {
	scores, err := svc.All(ctx)
	if err != nil {
		return nil, err
	}
	return DistinctStudents(scores), nil
}

func (svc *Service) ClassAverages(ctx context.Context) ([]SubjectAverage, error) {
	scores, err := svc.All(ctx)
	if err != nil {
		return nil, err
	}
	return SubjectAverages(scores), nil
}

func (svc *Service) ReportCard(ctx context.Context, student string) (ReportCard, error) {
	scores, err := svc.ScoresOf(ctx, student)
	if err != nil {
		return ReportCard{}, err
	}
	return NewReportCard(student, scores), nil
}
