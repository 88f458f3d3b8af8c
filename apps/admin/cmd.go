package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/darsban/apps/shared"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	app *shared.App
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  users - list the accounts")
	fmt.Fprintln(cli.out, "  report -student NAME [-format csv|xlsx] [-out FILE] - write a student's report card")
	fmt.Fprintln(cli.out, "  login -username USERNAME - check credentials and show the panel the account lands on")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	usersCmd := flag.NewFlagSet("users", flag.ExitOnError)

	reportCmd := flag.NewFlagSet("report", flag.ExitOnError)
	reportStudent := reportCmd.String("student", "", "The student's full name, as recorded with the grades.")
	reportFormat := reportCmd.String("format", formatCSV, "Output format: csv or xlsx.")
	reportOut := reportCmd.String("out", "", "Output file. Defaults to stdout.")

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginUname := loginCmd.String("username", "", "The user's username. The password will be prompted next.")

	switch args[1] {
	case "users":
		if err := usersCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.listUsers()
	case "report":
		if err := reportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *reportStudent == "" {
			reportCmd.Usage()
			return errHelp
		}
		return cli.writeReport(*reportStudent, *reportFormat, *reportOut)
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginUname == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginUname, string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
