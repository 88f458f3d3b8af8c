package echoweb

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darsban/core"
	"github.com/trezcool/darsban/core/i18n"
	"github.com/trezcool/darsban/core/user"
	"github.com/trezcool/darsban/storage/demo"
)

const formErrorKey = "form"

type (
	dashboard struct {
		deps Deps
		auth *authenticator
		font bool // local font file available
	}

	// page is what the layout and every view share.
	page struct {
		L       i18n.Locale
		AppName string
		Title   string
		CSRF    string
		Font    bool
		Demo    bool
		User    user.User
		Tab     string
		Flash   string
		Errors  map[string]string
		Code    int // error pages only
	}

	loginForm struct {
		Username string `form:"username"`
		Password string `form:"password"`
	}

	loginData struct {
		Form     loginForm
		Accounts []demo.Account
	}
)

func newDashboard(deps Deps, auth *authenticator, fontAvailable bool) *dashboard {
	return &dashboard{deps: deps, auth: auth, font: fontAvailable}
}

func registerDashboard(e *echo.Echo, d *dashboard) {
	csrf := csrfMiddleware()
	session := d.auth.sessionJWT()
	onlyAdmin := roleMiddleware(user.RoleSystemAdmin)
	onlyTeacher := roleMiddleware(user.RoleTeacher)
	onlyStudent := roleMiddleware(user.RoleStudent)

	e.GET("/login", d.loginForm, csrf)
	e.POST("/login", d.login, csrf)
	e.POST("/logout", d.logout, csrf)
	e.GET("/", d.home, session, csrf)

	e.POST("/admin/users", d.createUser, session, onlyAdmin, csrf)

	e.POST("/teacher/scores", d.recordScore, session, onlyTeacher, csrf)
	e.POST("/teacher/scores/import", d.importScores, session, onlyTeacher, csrf)

	e.GET("/student/report.csv", d.downloadCSV, session, onlyStudent)
	e.GET("/student/report.xlsx", d.downloadXLSX, session, onlyStudent)
}

func (d *dashboard) newPage(ctx echo.Context) *page {
	return &page{
		L:       contextLocale(ctx),
		AppName: d.deps.Conf.AppName,
		CSRF:    contextCSRF(ctx),
		Font:    d.font,
		Demo:    d.deps.Conf.DemoMode,
		Errors:  map[string]string{},
	}
}

func (d *dashboard) render(ctx echo.Context, code int, name string, view templ.Component) error {
	return ctx.Render(code, name, view)
}

// Handlers

func (d *dashboard) loginForm(ctx echo.Context) error {
	if _, ok := d.auth.sessionClaims(ctx); ok {
		return ctx.Redirect(http.StatusSeeOther, "/")
	}
	return d.renderLogin(ctx, http.StatusOK, loginForm{}, "")
}

func (d *dashboard) renderLogin(ctx echo.Context, code int, form loginForm, errMsg string) error {
	p := d.newPage(ctx)
	p.Title = p.L.T("Sign in")
	form.Password = ""
	data := loginData{Form: form}
	if d.deps.Conf.DemoMode {
		data.Accounts = demo.Accounts
	}
	if errMsg != "" {
		p.Errors[formErrorKey] = errMsg
	}
	return d.render(ctx, code, "login", loginPage(p, data))
}

func (d *dashboard) login(ctx echo.Context) error {
	var form loginForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to loginForm")
	}

	_, token, err := d.auth.login(ctx.Request().Context(), form.Username, form.Password)
	if err != nil {
		if err == errAuthenticationFailed {
			return d.renderLogin(ctx, http.StatusUnauthorized, form, contextLocale(ctx).T("Wrong username or password"))
		}
		return err
	}
	d.auth.setSession(ctx, token)
	return ctx.Redirect(http.StatusSeeOther, "/")
}

func (d *dashboard) logout(ctx echo.Context) error {
	d.auth.clearSession(ctx)
	return ctx.Redirect(http.StatusSeeOther, "/login")
}

// home shows the panel of the signed in user's role.
func (d *dashboard) home(ctx echo.Context) error {
	usr, err := d.auth.contextUser(ctx)
	if err != nil {
		return err
	}

	p := d.newPage(ctx)
	p.User = usr
	p.Tab = ctx.QueryParam("tab")

	switch usr.Role {
	case user.RoleSystemAdmin:
		return d.adminPanel(ctx, p, http.StatusOK, user.NewUser{})
	case user.RoleTeacher:
		return d.teacherPanel(ctx, p, http.StatusOK, teacherForms{})
	case user.RoleStudent:
		return d.studentPanel(ctx, p)
	default:
		p.Title = p.L.T("The %s panel is under development", p.L.Role(usr.Role))
		return d.render(ctx, http.StatusOK, "dashboard", dashboardPage(p, noticeView(p.Title)))
	}
}

// userPage starts a page for a handler behind the session middleware.
func (d *dashboard) userPage(ctx echo.Context) (*page, error) {
	usr, err := d.auth.contextUser(ctx)
	if err != nil {
		return nil, err
	}
	p := d.newPage(ctx)
	p.User = usr
	return p, nil
}

// formErrors maps validation errors onto form fields; ok is false for any other error.
func (d *dashboard) formErrors(err error) (fields map[string]string, ok bool) {
	switch vErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		return core.TranslateErrors(vErr, d.deps.Translator), true
	case *core.ValidationError:
		if vErr.Fields != nil {
			return vErr.FieldMap(), true
		}
		return map[string]string{formErrorKey: vErr.Error()}, true
	}
	return nil, false
}

// handleError is the dashboard side of the HTTP error handler.
func (d *dashboard) handleError(ctx echo.Context, code int, message interface{}) error {
	if code == http.StatusUnauthorized {
		d.auth.clearSession(ctx)
		return ctx.Redirect(http.StatusSeeOther, "/login")
	}
	if ctx.Request().Method == http.MethodHead {
		return ctx.NoContent(code)
	}

	p := d.newPage(ctx)
	p.Code = code
	switch {
	case code == http.StatusForbidden:
		p.Title = p.L.T("Permission denied")
	case code == http.StatusNotFound:
		p.Title = p.L.T("Page not found")
	case code >= http.StatusInternalServerError:
		p.Title = p.L.T("Something went wrong")
	default:
		if msg, ok := message.(string); ok {
			p.Title = msg
		} else {
			p.Title = http.StatusText(code)
		}
	}
	return d.render(ctx, code, "error", errorPage(p))
}
