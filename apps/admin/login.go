package main

import (
	"context"
	"fmt"

	"github.com/trezcool/darsban/core/user"
)

func (cli *commandLine) login(uname, pwd string) error {
	usr, err := cli.app.UserSvc.Authenticate(context.Background(), uname, pwd)
	if err != nil {
		return err
	}

	var panel string
	switch usr.Role {
	case user.RoleSystemAdmin:
		panel = "system admin panel"
	case user.RoleTeacher:
		panel = "teacher panel"
	case user.RoleStudent:
		panel = "student panel (grades of " + usr.StudentName() + ")"
	default:
		panel = "the " + usr.Role + " panel is under development"
	}
	fmt.Fprintf(cli.out, "Welcome, %s: %s\n", usr.Name, panel)
	return nil
}
