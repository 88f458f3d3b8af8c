package gradebook

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darsban/core"
)

// Grades range from MinGrade (weakest) to MaxGrade (best).
const (
	MinGrade = 1
	MaxGrade = 4
)

type Score struct {
	ID      string `json:"id"`
	Student string `json:"student"`
	Subject string `json:"subject"`
	Grade   int    `json:"grade"`
	Date    string `json:"date"` // core.DateLayout
}

// Roster lists what a teacher may pick from when recording a grade.
type Roster struct {
	Students []string `json:"students"`
	Subjects []string `json:"subjects"`
}

func (r Roster) HasStudent(name string) bool { return contains(r.Students, name) }

func (r Roster) HasSubject(name string) bool { return contains(r.Subjects, name) }

// Grades returns every valid grade in ascending order.
func (r Roster) Grades() []int {
	grades := make([]int, 0, MaxGrade-MinGrade+1)
	for g := MinGrade; g <= MaxGrade; g++ {
		grades = append(grades, g)
	}
	return grades
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// NewScore contains information needed to record a grade.
type NewScore struct {
	Student string `json:"student" form:"student" validate:"required"`
	Subject string `json:"subject" form:"subject" validate:"required"`
	Grade   int    `json:"grade" form:"grade" validate:"required,min=1,max=4"`
	Date    string `json:"date" form:"date" validate:"omitempty,datetime=2006-01-02"`
}

func (ns *NewScore) Validate(validate *validator.Validate, roster Roster) error {
	ns.Student = core.CleanString(ns.Student)
	ns.Subject = core.CleanString(ns.Subject)
	ns.Date = core.CleanString(ns.Date)

	if err := validate.Struct(ns); err != nil {
		return err
	}

	var flds []core.FieldError
	if !roster.HasStudent(ns.Student) {
		flds = append(flds, core.FieldError{Field: "student", Error: "unknown student"})
	}
	if !roster.HasSubject(ns.Subject) {
		flds = append(flds, core.FieldError{Field: "subject", Error: "unknown subject"})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

type QueryFilter struct {
	Student string `query:"student"`
	Subject string `query:"subject"`
}

func (qf *QueryFilter) Clean() {
	qf.Student = core.CleanString(qf.Student)
	qf.Subject = core.CleanString(qf.Subject)
}

type Repository interface {
	CreateScores(ctx context.Context, scores ...Score) ([]Score, error)
	// QueryScores returns the matching scores in insertion order.
	QueryScores(ctx context.Context, filter QueryFilter) ([]Score, error)
}

func (s Score) csvRecord() []string {
	return []string{s.Student, s.Subject, strconv.Itoa(s.Grade), s.Date}
}
