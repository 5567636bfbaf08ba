package main

import (
	"log"
	"os"

	"github.com/meshwar/roster/core"
	"github.com/meshwar/roster/core/student"
	appfs "github.com/meshwar/roster/fs"
	logsvc "github.com/meshwar/roster/services/logger"
	"github.com/meshwar/roster/storage/kv"
)

var logger core.Logger

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()
	logger = logsvc.NewStdLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile))

	// set up the roster store
	store, closeStore, err := kv.Open(conf)
	errAndDie(err)
	defer func() { _ = closeStore() }()

	// start CLI
	cli := commandLine{
		svc: student.NewService(store, logger, appfs.SeedCSV()),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal("admin setup failed", err)
	}
}
