package main

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (cli *commandLine) listUsers() error {
	users, err := cli.app.UserSvc.QueryAll(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tNAME\tROLE\tSCHOOL")
	for _, usr := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", usr.Username, usr.Name, usr.Role, usr.School)
	}
	return w.Flush()
}
