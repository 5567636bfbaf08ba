package main

import (
	"log"
	"os"

	echoapi "github.com/meshwar/roster/apps/api/echo"
	"github.com/meshwar/roster/core"
	"github.com/meshwar/roster/core/auth"
	"github.com/meshwar/roster/core/student"
	appfs "github.com/meshwar/roster/fs"
	logsvc "github.com/meshwar/roster/services/logger"
	"github.com/meshwar/roster/storage/kv"
	inmemkv "github.com/meshwar/roster/storage/kv/inmem"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var logger core.Logger
	if conf.Debug || conf.RollbarToken == "" {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// set up the roster store
	store, closeStore, err := kv.Open(conf)
	if err != nil {
		logger.Fatal("opening roster store", err)
	}
	defer func() { _ = closeStore() }()

	// set up services; session state is process-scoped
	studentSvc := student.NewService(store, logger, appfs.SeedCSV())
	gate, err := auth.NewGate(conf, inmemkv.NewStore(), logger)
	if err != nil {
		logger.Fatal("setting up session gate", err)
	}

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:       conf.ServerAddress(),
			Conf:       conf,
			Logger:     logger,
			StudentSvc: studentSvc,
			Gate:       gate,
		},
	)
	app.Start()
}
