package echoweb

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darsban/core/school"
	"github.com/trezcool/darsban/core/user"
)

const (
	tabSchools = "schools"
	tabUsers   = "users"
	tabReports = "reports"
)

type adminData struct {
	Schools     []school.School
	Users       []user.User
	Roles       []string
	SchoolCount int
	UserCount   int
	RosterSize  int
	Form        user.NewUser
}

func (d *dashboard) adminPanel(ctx echo.Context, p *page, code int, form user.NewUser) error {
	reqCtx := ctx.Request().Context()

	schools, err := d.deps.SchoolSvc.List(reqCtx)
	if err != nil {
		return errors.Wrap(err, "listing schools")
	}
	users, err := d.deps.UserSvc.QueryAll(reqCtx)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}

	switch p.Tab {
	case tabSchools, tabUsers, tabReports:
	default:
		p.Tab = tabSchools
	}
	if created := ctx.QueryParam("created"); created != "" && p.Flash == "" {
		p.Flash = p.L.T("User %s was created", created)
	}

	p.Title = p.L.T("System admin panel")
	data := adminData{
		Schools:     schools,
		Users:       users,
		Roles:       user.AllRoles,
		SchoolCount: len(schools),
		UserCount:   len(users),
		RosterSize:  len(d.deps.Gradebook.Roster().Students),
		Form:        form,
	}
	return d.render(ctx, code, "dashboard", dashboardPage(p, adminView(p, data)))
}

func (d *dashboard) createUser(ctx echo.Context) error {
	p, err := d.userPage(ctx)
	if err != nil {
		return err
	}

	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	reqCtx := ctx.Request().Context()
	if err := data.Validate(reqCtx, d.deps.Validate, d.deps.UserSvc); err != nil {
		fields, ok := d.formErrors(err)
		if !ok {
			return errors.Wrap(err, "validating NewUser")
		}
		data.Password, data.PasswordConfirm = "", ""
		p.Tab = tabUsers
		p.Errors = fields
		return d.adminPanel(ctx, p, http.StatusBadRequest, data)
	}

	usr, err := d.deps.UserSvc.Create(reqCtx, data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	d.deps.Logger.Info("user created", map[string]interface{}{"username": usr.Username, "role": usr.Role}, p.User)

	q := url.Values{"tab": {tabUsers}, "created": {usr.Username}}
	return ctx.Redirect(http.StatusSeeOther, "/?"+q.Encode())
}
