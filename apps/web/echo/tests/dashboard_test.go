package tests

import (
	"bytes"
	"context"
	"encoding/csv"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/darsban/core/gradebook"
	"github.com/trezcool/darsban/core/user"
	testutil "github.com/trezcool/darsban/tests"
)

const bom = "\ufeff"

func Test_dashboard_login(t *testing.T) {
	srv, _ := setup(t)

	t.Run("login page lists the demo accounts", func(t *testing.T) {
		rec := newBrowser(t, srv).get("/login")
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `dir="rtl"`)
		assert.Contains(t, body, "ورود به سیستم")
		for _, acc := range []string{"admin123", "teacher123", "student123"} {
			assert.Contains(t, body, acc)
		}
	})

	t.Run("english on request", func(t *testing.T) {
		b := newBrowser(t, srv)
		rec := b.get("/login?lang=en")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `dir="ltr"`)
		assert.Contains(t, rec.Body.String(), "Sign in")

		// the choice sticks
		rec = b.get("/login")
		assert.Contains(t, rec.Body.String(), `dir="ltr"`)
	})

	tests := []struct {
		name     string
		uname    string
		pwd      string
		wantCode int
	}{
		{name: "wrong password", uname: "admin", pwd: "admin", wantCode: http.StatusUnauthorized},
		{name: "unknown user", uname: "lol", pwd: "admin123", wantCode: http.StatusUnauthorized},
		{name: "case changed username", uname: "Admin", pwd: "admin123", wantCode: http.StatusUnauthorized},
		{name: "padded username", uname: " admin", pwd: "admin123", wantCode: http.StatusUnauthorized},
		{name: "empty form", wantCode: http.StatusUnauthorized},
		{name: "admin", uname: "admin", pwd: "admin123", wantCode: http.StatusSeeOther},
		{name: "teacher", uname: "teacher1", pwd: "teacher123", wantCode: http.StatusSeeOther},
		{name: "student", uname: "student1", pwd: "student123", wantCode: http.StatusSeeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBrowser(t, srv)
			rec := b.postForm("/login", url.Values{"username": {tt.uname}, "password": {tt.pwd}})
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusSeeOther {
				assert.Equal(t, "/", rec.Header().Get("Location"))
				assert.Contains(t, b.cookies, sessionCookie)
			} else {
				assert.Contains(t, rec.Body.String(), "نام کاربری یا رمز عبور اشتباه است")
				assert.NotContains(t, b.cookies, sessionCookie)
			}
		})
	}

	t.Run("missing csrf token", func(t *testing.T) {
		b := newBrowser(t, srv)
		b.get("/login")
		form := url.Values{"username": {"admin"}, "password": {"admin123"}}
		rec := b.do(newFormRequest(http.MethodPost, "/login", form))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.NotContains(t, b.cookies, sessionCookie)
	})

	t.Run("signed in users skip the login page", func(t *testing.T) {
		b := loggedIn(t, srv, "admin", "admin123")
		rec := b.get("/login")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
	})
}

func Test_dashboard_logout(t *testing.T) {
	srv, _ := setup(t)
	b := loggedIn(t, srv, "teacher1", "teacher123")

	rec := b.postForm("/logout", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.NotContains(t, b.cookies, sessionCookie)

	rec = b.get("/")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func Test_dashboard_home(t *testing.T) {
	srv, app := setup(t)

	t.Run("anonymous", func(t *testing.T) {
		rec := newBrowser(t, srv).get("/")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("forged session", func(t *testing.T) {
		b := newBrowser(t, srv)
		b.cookies[sessionCookie] = &http.Cookie{Name: sessionCookie, Value: "not.a.jwt"}
		rec := b.get("/")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		assert.NotContains(t, b.cookies, sessionCookie)
	})

	t.Run("system admin", func(t *testing.T) {
		b := loggedIn(t, srv, "admin", "admin123")

		body := b.get("/").Body.String()
		assert.Contains(t, body, "پنل مدیر سیستم")
		assert.Contains(t, body, "حالت دمو: تمام داده‌ها نمونه هستند")
		for _, code := range []string{"SB1001", "AH2002", "FZ3003"} {
			assert.Contains(t, body, code)
		}

		body = b.get("/?tab=users").Body.String()
		for _, uname := range []string{"admin", "teacher1", "student1"} {
			assert.Contains(t, body, uname)
		}
		assert.Contains(t, body, `action="/admin/users"`)

		body = b.get("/?tab=reports").Body.String()
		assert.Contains(t, body, "تعداد مدارس")
		assert.Contains(t, body, "<strong>3</strong>")
		assert.Contains(t, body, "دانش‌آموزان فهرست کلاس")
		assert.Contains(t, body, "<strong>4</strong>")
	})

	t.Run("teacher", func(t *testing.T) {
		b := loggedIn(t, srv, "teacher1", "teacher123")

		body := b.get("/").Body.String()
		assert.Contains(t, body, "پنل آموزگار: فاطمه سیفی پور")
		assert.Contains(t, body, "مریم حسینی") // roster only
		assert.Contains(t, body, "هنر")

		body = b.get("/?tab=reports&student=" + url.QueryEscape("علی محمدی")).Body.String()
		assert.Contains(t, body, "<svg")
		assert.Contains(t, body, "2024-02-20")
		assert.NotContains(t, body, "2024-02-01") // سارا احمدی's row

		body = b.get("/?tab=stats").Body.String()
		for _, avg := range []string{"4.00", "3.33", "2.00"} {
			assert.Contains(t, body, avg)
		}
	})

	t.Run("student", func(t *testing.T) {
		b := loggedIn(t, srv, "student1", "student123")

		body := b.get("/").Body.String()
		assert.Contains(t, body, "پنل دانش‌آموز: علی محمدی")
		assert.Contains(t, body, "3.00")
		assert.Contains(t, body, "ریاضی")
		assert.Contains(t, body, "66.7%")
		assert.Contains(t, body, "33.3%")
		assert.Contains(t, body, `href="/student/report.csv"`)
		assert.NotContains(t, body, "رضا کریمی")
	})

	t.Run("student titled by linked name", func(t *testing.T) {
		_, err := app.UserSvc.Create(context.Background(), user.NewUser{
			Name:     "Ali M",
			Username: "ali_m",
			Role:     user.RoleStudent,
			School:   "شهید بهشتی",
			Student:  "علی محمدی",
			Password: "alim1234",
		})
		require.NoError(t, err)
		b := loggedIn(t, srv, "ali_m", "alim1234")

		body := b.get("/").Body.String()
		assert.Contains(t, body, "پنل دانش‌آموز: علی محمدی")
		assert.NotContains(t, body, "پنل دانش‌آموز: Ali M")
	})

	t.Run("student without grades", func(t *testing.T) {
		testutil.CreateUser(t, app.UserSvc, "maryam", "maryam123", "مریم حسینی", user.RoleStudent)
		b := loggedIn(t, srv, "maryam", "maryam123")

		body := b.get("/").Body.String()
		assert.Contains(t, body, "هنوز نمره‌ای برای شما ثبت نشده است.")
		assert.NotContains(t, body, "/student/report.csv")

		rec := b.get("/student/report.csv")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown role", func(t *testing.T) {
		testutil.CreateUser(t, app.UserSvc, "principal", "principal123", "Principal", "principal")
		b := loggedIn(t, srv, "principal", "principal123")

		rec := b.get("/?lang=en")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "The principal panel is under development")
	})
}

func Test_dashboard_downloads(t *testing.T) {
	srv, _ := setup(t)

	t.Run("csv holds exactly the student's rows", func(t *testing.T) {
		b := loggedIn(t, srv, "student1", "student123")
		rec := b.get("/student/report.csv")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, gradebook.CSVContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "filename*=UTF-8''"+url.PathEscape("report-card_علی_محمدی.csv"))

		body := rec.Body.String()
		require.True(t, strings.HasPrefix(body, bom))

		records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(body, bom))).ReadAll()
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"student", "subject", "grade", "date"},
			{"علی محمدی", "ریاضی", "4", "2024-01-15"},
			{"علی محمدی", "ریاضی", "3", "2024-02-20"},
			{"علی محمدی", "علوم", "2", "2024-01-10"},
		}, records)
	})

	t.Run("xlsx", func(t *testing.T) {
		b := loggedIn(t, srv, "student1", "student123")
		rec := b.get("/student/report.xlsx")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, gradebook.XLSXContentType, rec.Header().Get("Content-Type"))

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows(f.GetSheetName(0))
		require.NoError(t, err)
		require.True(t, len(rows) >= 4)
		assert.Equal(t, "علی محمدی", rows[1][0])
	})

	for _, acc := range []struct{ uname, pwd string }{{"admin", "admin123"}, {"teacher1", "teacher123"}} {
		t.Run("refused for "+acc.uname, func(t *testing.T) {
			b := loggedIn(t, srv, acc.uname, acc.pwd)
			for _, path := range []string{"/student/report.csv", "/student/report.xlsx"} {
				rec := b.get(path)
				assert.Equal(t, http.StatusForbidden, rec.Code)
				assert.NotContains(t, rec.Body.String(), "2024-01-15")
			}
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		rec := newBrowser(t, srv).get("/student/report.csv")
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})
}

func Test_dashboard_recordScore(t *testing.T) {
	srv, app := setup(t)
	ctx := context.Background()
	b := loggedIn(t, srv, "teacher1", "teacher123")

	before, err := app.Gradebook.ScoresOf(ctx, "مریم حسینی")
	require.NoError(t, err)
	require.Empty(t, before)

	rec := b.postForm("/teacher/scores", url.Values{
		"student": {"مریم حسینی"},
		"subject": {"هنر"},
		"grade":   {"4"},
		"date":    {"2024-03-01"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Location"), "recorded=")

	after, err := app.Gradebook.ScoresOf(ctx, "مریم حسینی")
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, 4, after[0].Grade)
	assert.Equal(t, "2024-03-01", after[0].Date)

	body := b.get(rec.Header().Get("Location")).Body.String()
	assert.Contains(t, body, "class=\"flash\"")

	tests := []struct {
		name      string
		form      url.Values
		wantError string
	}{
		{name: "unknown subject", form: url.Values{"student": {"مریم حسینی"}, "subject": {"شیمی"}, "grade": {"3"}}, wantError: "unknown subject"},
		{name: "unknown student", form: url.Values{"student": {"لول"}, "subject": {"هنر"}, "grade": {"3"}}, wantError: "unknown student"},
		{name: "grade out of range", form: url.Values{"student": {"مریم حسینی"}, "subject": {"هنر"}, "grade": {"5"}}, wantError: "grade must be 4 or less"},
		{name: "bad date", form: url.Values{"student": {"مریم حسینی"}, "subject": {"هنر"}, "grade": {"2"}, "date": {"01/02/2024"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := b.postForm("/teacher/scores", tt.form)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			if tt.wantError != "" {
				assert.Contains(t, rec.Body.String(), tt.wantError)
			}
		})
	}

	scores, err := app.Gradebook.ScoresOf(ctx, "مریم حسینی")
	require.NoError(t, err)
	assert.Len(t, scores, 1)

	t.Run("refused for students", func(t *testing.T) {
		sb := loggedIn(t, srv, "student1", "student123")
		rec := sb.postForm("/teacher/scores", url.Values{"student": {"علی محمدی"}, "subject": {"هنر"}, "grade": {"4"}})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func Test_dashboard_importScores(t *testing.T) {
	srv, app := setup(t)
	b := loggedIn(t, srv, "teacher1", "teacher123")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"student", "subject", "grade", "date"},
		{"رضا کریمی", "علوم", 3, "2024-03-02"},
		{"رضا کریمی", "شیمی", 3, "2024-03-02"},
		{"سارا احمدی", "ریاضی", "lol", ""},
		{"سارا احمدی", "هنر", 2, ""},
		{"سارا احمدی", "علوم", 2, "01/03/2024"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	rec := b.postFile("/teacher/scores/import", "file", "grades.xlsx", buf.Bytes())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := rec.Body.String()
	assert.Contains(t, body, "unknown subject")
	assert.Contains(t, body, `invalid grade &#34;lol&#34;`)
	assert.Contains(t, body, "date: date does not match the 2006-01-02 format")
	assert.NotContains(t, body, "Key: ")

	reza, err := app.Gradebook.ScoresOf(context.Background(), "رضا کریمی")
	require.NoError(t, err)
	assert.Len(t, reza, 2)
	sara, err := app.Gradebook.ScoresOf(context.Background(), "سارا احمدی")
	require.NoError(t, err)
	assert.Len(t, sara, 2)

	t.Run("not a workbook", func(t *testing.T) {
		rec := b.postFile("/teacher/scores/import", "file", "grades.xlsx", []byte("lol"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "not a readable xlsx workbook")
	})
}

func Test_dashboard_createUser(t *testing.T) {
	srv, app := setup(t)
	b := loggedIn(t, srv, "admin", "admin123")

	valid := url.Values{
		"name":             {"مریم حسینی"},
		"username":         {"maryam_h"},
		"role":             {user.RoleStudent},
		"school":           {"شهید بهشتی"},
		"student":          {"مریم حسینی"},
		"password":         {"Gol-Sorkh#2024"},
		"password_confirm": {"Gol-Sorkh#2024"},
	}
	with := func(key, value string) url.Values {
		form := url.Values{}
		for k, v := range valid {
			form[k] = v
		}
		form.Set(key, value)
		return form
	}

	tests := []struct {
		name      string
		form      url.Values
		wantError string
	}{
		{name: "missing name", form: with("name", ""), wantError: "this field is required"},
		{name: "username taken", form: with("username", "teacher1"), wantError: user.ErrUsernameExists.Error()},
		{name: "invalid role", form: with("role", "principal"), wantError: "invalid role"},
		{name: "short password", form: with("password", "Ab1#"), wantError: "password must contain at least 8 characters"},
		{name: "confirmation mismatch", form: with("password_confirm", "lol"), wantError: "password_confirm must be equal to Password"},
		{
			name: "password over 72 bytes",
			form: func() url.Values {
				pwd := "Gol-Sorkh#2024" + strings.Repeat("گل", 15)
				form := with("password", pwd)
				form.Set("password_confirm", pwd)
				return form
			}(),
			wantError: "password must not exceed 72 bytes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := b.postForm("/admin/users", tt.form)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantError)
		})
	}

	rec := b.postForm("/admin/users", valid)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Location"), "created=maryam_h")

	usr, err := app.UserSvc.GetByUsername(context.Background(), "maryam_h")
	require.NoError(t, err)
	assert.Equal(t, user.RoleStudent, usr.Role)

	// the new account can sign in right away
	loggedIn(t, srv, "maryam_h", "Gol-Sorkh#2024")

	t.Run("refused for teachers", func(t *testing.T) {
		tb := loggedIn(t, srv, "teacher1", "teacher123")
		rec := tb.postForm("/admin/users", with("username", "sneaky"))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func Test_dashboard_notFound(t *testing.T) {
	srv, _ := setup(t)
	rec := newBrowser(t, srv).get("/lol")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "صفحه یافت نشد")
}
