package echoweb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/trezcool/darsban/core/gradebook"
	"github.com/trezcool/darsban/core/i18n"
	"github.com/trezcool/darsban/core/user"
	"github.com/trezcool/darsban/storage/demo"
)

func newTestPage(tag language.Tag) *page {
	return &page{
		L:       i18n.NewLocale(tag),
		AppName: "Darsban",
		CSRF:    "token",
		Errors:  map[string]string{},
	}
}

func renderString(t *testing.T, c templ.Component) string {
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestLayout(t *testing.T) {
	p := newTestPage(language.Persian)
	p.Title = "عنوان"
	p.Font = true
	p.Demo = true
	p.Flash = "<b>done</b>"
	p.User = user.User{ID: "1", Name: "علی محمدی", Role: user.RoleStudent}

	got := renderString(t, dashboardPage(p, noticeView("hello")))
	assert.True(t, strings.HasPrefix(got, "<!DOCTYPE html>"))
	assert.Contains(t, got, `<html lang="fa" dir="rtl">`)
	assert.Contains(t, got, "<title>عنوان | Darsban</title>")
	assert.Contains(t, got, "@font-face")
	assert.Contains(t, got, `<p class="flash">&lt;b&gt;done&lt;/b&gt;</p>`)
	assert.Contains(t, got, `action="/logout"`)
	assert.Contains(t, got, `<input type="hidden" name="_csrf" value="token"/>`)
	assert.Contains(t, got, `<p class="notice">hello</p>`)

	t.Run("anonymous", func(t *testing.T) {
		got := renderString(t, errorPage(newTestPage(language.English)))
		assert.NotContains(t, got, `action="/logout"`)
		assert.NotContains(t, got, "@font-face")
		assert.Contains(t, got, `dir="ltr"`)
	})
}

func TestLoginPage(t *testing.T) {
	p := newTestPage(language.English)

	got := renderString(t, loginPage(p, loginData{Form: loginForm{Username: `"><script>`}, Accounts: demo.Accounts}))
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, `value="&#34;&gt;&lt;script&gt;"`)
	for _, acc := range demo.Accounts {
		assert.Contains(t, got, "<code>"+acc.Username+"</code>")
	}

	got = renderString(t, loginPage(p, loginData{}))
	assert.NotContains(t, got, "demo-accounts")
}

func TestErrorPage(t *testing.T) {
	p := newTestPage(language.English)
	p.Code = http.StatusNotFound
	p.Title = "Page not found"

	got := renderString(t, errorPage(p))
	assert.Contains(t, got, "<h2>404: Page not found</h2>")
}

func TestAdminView(t *testing.T) {
	p := newTestPage(language.English)
	p.Tab = tabUsers
	p.Errors["password"] = "password must not exceed 72 bytes"

	got := renderString(t, adminView(p, adminData{
		Roles: user.AllRoles,
		Form:  user.NewUser{Name: "Maryam", Role: user.RoleTeacher},
	}))
	assert.Contains(t, got, `<a href="/?tab=users" class="tab active">`)
	assert.Contains(t, got, `<a href="/?tab=schools" class="tab">`)
	assert.Contains(t, got, `<option value="teacher" selected>`)
	assert.Contains(t, got, `<input type="text" name="name" value="Maryam"/>`)
	assert.Contains(t, got, `<span class="field-error">password must not exceed 72 bytes</span>`)

	p.Tab = tabReports
	got = renderString(t, adminView(p, adminData{SchoolCount: 3, UserCount: 5, RosterSize: 4}))
	assert.Contains(t, got, "<span>Students on the roster</span><strong>4</strong>")
}

func TestTeacherView(t *testing.T) {
	p := newTestPage(language.English)

	t.Run("grades", func(t *testing.T) {
		p.Tab = tabGrades
		got := renderString(t, teacherView(p, teacherData{
			teacherForms: teacherForms{
				Score: gradebook.NewScore{Grade: 3},
				Import: &gradebook.ImportResult{Skipped: []gradebook.RowError{
					{Row: 7, Reason: "date: date does not match the 2006-01-02 format"},
				}},
			},
			Grades: []int{1, 2, 3, 4},
		}))
		assert.Contains(t, got, "<option selected>3</option>")
		assert.Contains(t, got, "<li>Row 7: date: date does not match the 2006-01-02 format</li>")
	})

	t.Run("reports embed the chart as markup", func(t *testing.T) {
		p.Tab = tabReports
		got := renderString(t, teacherView(p, teacherData{
			Students: []string{"علی محمدی"},
			Selected: "علی محمدی",
			Progress: `<svg class="chart"></svg>`,
		}))
		assert.Contains(t, got, `<div class="chart"><svg class="chart"></svg></div>`)
		assert.Contains(t, got, "<option selected>علی محمدی</option>")
	})

	t.Run("stats", func(t *testing.T) {
		p.Tab = tabStats
		got := renderString(t, teacherView(p, teacherData{
			Averages: []gradebook.SubjectAverage{{Subject: "ریاضی", Average: 10.0 / 3}},
		}))
		assert.Contains(t, got, "<td>ریاضی</td><td>3.33</td>")
	})
}

func TestStudentView(t *testing.T) {
	p := newTestPage(language.English)

	got := renderString(t, studentView(p, studentData{Card: gradebook.NewReportCard("x", nil)}))
	assert.Contains(t, got, `class="notice"`)
	assert.NotContains(t, got, "/student/report.csv")

	card := gradebook.NewReportCard("علی محمدی", []gradebook.Score{{Student: "علی محمدی", Subject: "ریاضی", Grade: 4, Date: "2024-01-15"}})
	got = renderString(t, studentView(p, studentData{Card: card}))
	assert.Contains(t, got, "<strong>4.00</strong>")
	assert.Contains(t, got, "<td>2024-01-15</td>")
	assert.Contains(t, got, `href="/student/report.xlsx"`)
}

func TestTemplRenderer(t *testing.T) {
	e := echo.New()
	e.Renderer = templRenderer{}
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, ctx.Render(http.StatusTeapot, "notice", noticeView("hi")))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, echo.MIMETextHTMLCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `<p class="notice">hi</p>`, rec.Body.String())

	err := templRenderer{}.Render(&strings.Builder{}, "login", "lol", ctx)
	assert.EqualError(t, err, "rendering login: string is not a templ component")
}
