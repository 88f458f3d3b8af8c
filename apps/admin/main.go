package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/darsban/apps/shared"
	"github.com/trezcool/darsban/core"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up services
	conf := core.NewConfig()
	app, err := shared.NewApp(context.Background(), conf)
	errAndDie(err)

	// start CLI
	cli := commandLine{
		app: app,
		out: os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
