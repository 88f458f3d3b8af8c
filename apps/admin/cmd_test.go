package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/darsban/core"
	"github.com/trezcool/darsban/core/user"
	testutil "github.com/trezcool/darsban/tests"
)

func setup(t *testing.T, conf ...*core.Config) (*commandLine, *bytes.Buffer) {
	c := testutil.NewConfig()
	if len(conf) > 0 {
		c = conf[0]
	}

	var out bytes.Buffer
	return &commandLine{app: testutil.NewApp(t, c), out: &out}, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    []string
	extra      interface{}
}

func runCLITests(t *testing.T, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			cli, out := setup(t)
			readPasswordFunc = func(fd int) ([]byte, error) {
				if pwd, ok := tt.extra.(string); ok {
					return []byte(pwd), nil
				}
				return nil, nil
			}

			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func Test_commandLine_run(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp, wantOut: []string{"Usage:"}},
	})
}

func Test_commandLine_listUsers(t *testing.T) {
	runCLITests(t, []cliTest{
		{
			name:    "demo accounts",
			args:    []string{"users"},
			wantOut: []string{"USERNAME", "admin", "teacher1", "student1", "علی محمدی", user.RoleSystemAdmin},
		},
	})
}

func Test_commandLine_login(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "no args", args: []string{"login"}, wantErr: errHelp},
		{name: "username but no password", args: []string{"login", "-username", "admin"}, wantErr: errHelp},
		{name: "wrong password", args: []string{"login", "-username", "admin"}, extra: "admin", wantErr: user.ErrInvalidCredentials},
		{name: "unknown user", args: []string{"login", "-username", "lol"}, extra: "admin123", wantErr: user.ErrInvalidCredentials},
		{name: "case changed username", args: []string{"login", "-username", "Admin"}, extra: "admin123", wantErr: user.ErrInvalidCredentials},
		{name: "admin", args: []string{"login", "-username", "admin"}, extra: "admin123", wantOut: []string{"system admin panel"}},
		{name: "teacher", args: []string{"login", "-username", "teacher1"}, extra: "teacher123", wantOut: []string{"teacher panel"}},
		{name: "student", args: []string{"login", "-username", "student1"}, extra: "student123", wantOut: []string{"student panel (grades of علی محمدی)"}},
	})
}

func Test_commandLine_login_demoModeOff(t *testing.T) {
	conf := testutil.NewConfig()
	conf.DemoMode = false
	cli, out := setup(t, conf)
	readPasswordFunc = func(int) ([]byte, error) { return []byte("admin123"), nil }

	err := cli.run([]string{"admin", "login", "-username", "admin"})
	assert.Equal(t, user.ErrInvalidCredentials, err)
	assert.NotContains(t, out.String(), "Welcome")

	require.NoError(t, cli.run([]string{"admin", "users"}))
	assert.NotContains(t, out.String(), "teacher1")
}

func Test_commandLine_writeReport(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "no args", args: []string{"report"}, wantErr: errHelp},
		{name: "unknown format", args: []string{"report", "-student", "علی محمدی", "-format", "pdf"}, wantErrStr: `unknown format "pdf": must be csv or xlsx`},
		{name: "no grades", args: []string{"report", "-student", "مریم حسینی"}, wantErr: errNoGrades},
		{
			name:    "csv to stdout",
			args:    []string{"report", "-student", "علی محمدی"},
			wantOut: []string{"\ufeffstudent,subject,grade,date", "علی محمدی,ریاضی,4,2024-01-15", "علی محمدی,علوم,2,2024-01-10"},
		},
	})

	t.Run("xlsx to file", func(t *testing.T) {
		cli, out := setup(t)
		path := filepath.Join(t.TempDir(), "card.xlsx")

		require.NoError(t, cli.run([]string{"admin", "report", "-student", "علی محمدی", "-format", "xlsx", "-out", path}))
		assert.Contains(t, out.String(), path)

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		wb, err := excelize.OpenReader(f)
		require.NoError(t, err)
		defer wb.Close()

		rows, err := wb.GetRows(wb.GetSheetName(0))
		require.NoError(t, err)
		require.True(t, len(rows) >= 4)
		assert.Equal(t, "علی محمدی", rows[1][0])
		assert.Equal(t, "علوم", rows[3][1])
	})

	t.Run("unwritable file", func(t *testing.T) {
		cli, out := setup(t)
		dir := t.TempDir()

		err := cli.run([]string{"admin", "report", "-student", "علی محمدی", "-out", dir})
		require.Error(t, err)
		assert.NotContains(t, out.String(), "written to")
	})
}
