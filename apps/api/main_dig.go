package main

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	dig_container "github.com/chamadaweb/chamada/apps/api/di/dig"
	echoapi "github.com/chamadaweb/chamada/apps/api/echo"
	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/school"
	"github.com/chamadaweb/chamada/core/user"
	"github.com/chamadaweb/chamada/storage/database"
)

func startWithDig() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		db *database.DB,
		usrRepo user.Repository,
		schoolRepo school.Repository,
		creds user.CredentialVerifier,
		validate *validator.Validate,
		translator ut.Translator,
		server *echoapi.Server,
	) {
		// =========================================================================
		// Initialize App

		initApp(conf, apiLogger, validate, translator)

		defer closeDB(conf, db, dbLoggerParam.Logger)
		defer apiLogger.Info("Application stopped")

		seedSampleData(conf, apiLogger, usrRepo, schoolRepo, creds)

		// =========================================================================
		// Start Debug Service
		//
		// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
		// /debug/vars - Added to the default mux by importing the expvar package.

		startDebugServer(conf, apiLogger)

		// =========================================================================
		// Start API Service

		serve(conf, apiLogger, server)
	}))
}
