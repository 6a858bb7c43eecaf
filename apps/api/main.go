package main

import (
	"context"
	"expvar"
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/chamadaweb/chamada/apps/api/echo"
	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/sample"
	"github.com/chamadaweb/chamada/core/school"
	"github.com/chamadaweb/chamada/core/user"
	"github.com/chamadaweb/chamada/storage/database"
)

func main() {
	manual := flag.Bool("manual", false, "wire dependencies by hand instead of with the dig container")
	flag.Parse()

	if *manual {
		startManual()
	} else {
		startWithDig()
	}
}

// initApp registers validators and parses email templates.
func initApp(conf *core.Config, logger core.Logger, validate *validator.Validate, translator ut.Translator) {
	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))

	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	if err := core.ParseEmailTemplates(conf); err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}
}

// seedSampleData fills an empty database with the sample records, when enabled.
func seedSampleData(
	conf *core.Config,
	logger core.Logger,
	usrRepo user.Repository,
	schoolRepo school.Repository,
	creds user.CredentialVerifier,
) {
	if !conf.SeedSampleData {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), conf.Database.ConnectTimeout)
	defer cancel()

	seeded, err := sample.Seed(ctx, usrRepo, schoolRepo, creds)
	if err != nil {
		// the API still serves; the database may come up later
		logger.Error(fmt.Sprintf("seeding sample data: %v", err), err)
		return
	}
	if seeded {
		logger.Info("sample data seeded")
	}
}

// startDebugServer serves /debug/pprof and /debug/vars on the debug host.
func startDebugServer(conf *core.Config, logger core.Logger) {
	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("database").Set(conf.Database.Driver)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()
}

// serve runs the API server until it fails or a shutdown signal is received.
func serve(conf *core.Config, logger core.Logger, server *echoapi.Server) {
	go func() {
		server.Start()
	}()

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shut down and shed load
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func closeDB(conf *core.Config, db *database.DB, dbLogger core.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	if err := db.Close(ctx); err != nil {
		dbLogger.Error("Failed to close", err)
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
