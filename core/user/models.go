package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darsban/core"
)

// Roles
const (
	RoleSystemAdmin = "system admin"
	RoleTeacher     = "teacher"
	RoleStudent     = "student"
)

var (
	AllRoles = []string{RoleSystemAdmin, RoleTeacher, RoleStudent}

	Roles = []Role{
		{Name: "System admin", Value: RoleSystemAdmin},
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Student", Value: RoleStudent},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"` // full name
	Role         string    `json:"role"`
	School       string    `json:"school"`
	Student      string    `json:"student,omitempty"` // linked student name, matched against gradebook rows
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"` // UTC
	LastLogin    time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u User) IsSystemAdmin() bool { return u.Role == RoleSystemAdmin }

func (u User) IsTeacher() bool { return u.Role == RoleTeacher }

func (u User) IsStudent() bool { return u.Role == RoleStudent }

// StudentName is the name the user's grades are filed under.
func (u User) StudentName() string {
	if u.Student != "" {
		return u.Student
	}
	return u.Name
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Name            string `json:"name" form:"name" validate:"required"`
	Username        string `json:"username" form:"username" validate:"required,min=4,alphanum_"`
	Role            string `json:"role" form:"role" validate:"required,role"`
	School          string `json:"school" form:"school" validate:"required"`
	Student         string `json:"student" form:"student"`
	Password        string `json:"password" form:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Username = core.CleanString(nu.Username)
	nu.Role = core.CleanString(nu.Role)
	nu.School = core.CleanString(nu.School)
	nu.Student = core.CleanString(nu.Student)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(ctx, nu.Username)
}
