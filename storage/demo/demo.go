// Package demo holds the hardcoded sample data the dashboard runs on in demo mode.
package demo

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/darsban/core/gradebook"
	"github.com/trezcool/darsban/core/school"
	"github.com/trezcool/darsban/core/user"
)

type Account struct {
	Username string
	Password string
	Name     string
	Role     string
	School   string
	Student  string
}

var (
	Accounts = []Account{
		{Username: "admin", Password: "admin123", Name: "مدیر سیستم", Role: user.RoleSystemAdmin, School: "شهید بهشتی"},
		{Username: "teacher1", Password: "teacher123", Name: "فاطمه سیفی پور", Role: user.RoleTeacher, School: "شهید بهشتی"},
		{Username: "student1", Password: "student123", Name: "علی محمدی", Role: user.RoleStudent, School: "شهید بهشتی", Student: "علی محمدی"},
	}

	Scores = []gradebook.Score{
		{Student: "علی محمدی", Subject: "ریاضی", Grade: 4, Date: "2024-01-15"},
		{Student: "علی محمدی", Subject: "ریاضی", Grade: 3, Date: "2024-02-20"},
		{Student: "علی محمدی", Subject: "علوم", Grade: 2, Date: "2024-01-10"},
		{Student: "رضا کریمی", Subject: "ریاضی", Grade: 3, Date: "2024-01-15"},
		{Student: "سارا احمدی", Subject: "ادبیات", Grade: 4, Date: "2024-02-01"},
	}

	Schools = []school.School{
		{Name: "دبستان شهید بهشتی", Code: "SB1001", StudentCount: 150},
		{Name: "متوسطه علامه حلی", Code: "AH2002", StudentCount: 300},
		{Name: "دبیرستان فرزانگان", Code: "FZ3003", StudentCount: 200},
	}

	Roster = gradebook.Roster{
		Students: []string{"علی محمدی", "رضا کریمی", "سارا احمدی", "مریم حسینی"},
		Subjects: []string{"ریاضی", "علوم", "ادبیات", "هنر"},
	}
)

// Load stores the sample accounts, schools and scores.
func Load(ctx context.Context, usrSvc *user.Service, schSvc *school.Service, grades *gradebook.Service) error {
	for _, acc := range Accounts {
		nu := user.NewUser{
			Name:     acc.Name,
			Username: acc.Username,
			Role:     acc.Role,
			School:   acc.School,
			Student:  acc.Student,
			Password: acc.Password,
		}
		if _, err := usrSvc.Create(ctx, nu); err != nil {
			return errors.Wrapf(err, "creating user %q", acc.Username)
		}
	}

	for _, sch := range Schools {
		if _, err := schSvc.Create(ctx, sch); err != nil {
			return errors.Wrapf(err, "creating school %q", sch.Code)
		}
	}

	scores := make([]gradebook.Score, len(Scores))
	copy(scores, Scores)
	if _, err := grades.Load(ctx, scores...); err != nil {
		return errors.Wrap(err, "loading scores")
	}
	return nil
}
