// Package testutil holds the fixtures shared by the test suites of the apps.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/darsban/apps/shared"
	"github.com/trezcool/darsban/core"
	"github.com/trezcool/darsban/core/user"
)

const SessionCookie = "darsban_session"

// NewConfig returns the configuration of a demo-mode test run.
func NewConfig() *core.Config {
	return &core.Config{
		Env:         "TEST",
		AppName:     "Darsban",
		TestMode:    true,
		DemoMode:    true,
		SecretKey:   "secret",
		DefaultLang: "fa",
		Server: core.ServerConfig{
			JWTExpirationDelta:        time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
			SessionCookie:             SessionCookie,
			DisableReqLogs:            true,
		},
	}
}

// NewApp sets up the services for conf, with the sample data in demo mode.
func NewApp(t *testing.T, conf *core.Config) *shared.App {
	app, err := shared.NewApp(context.Background(), conf)
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	return app
}

// CreateUser stores an account without validation, like the sample data.
// The account's grades are filed under its name.
func CreateUser(t *testing.T, svc *user.Service, uname, pwd, name, role string) user.User {
	usr, err := svc.Create(context.Background(), user.NewUser{
		Name:     name,
		Username: uname,
		Role:     role,
		School:   "شهید بهشتی",
		Student:  name,
		Password: pwd,
	})
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
