package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/chamadaweb/chamada/apps/api/echo"
	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/attendance"
	"github.com/chamadaweb/chamada/core/report"
	"github.com/chamadaweb/chamada/core/school"
	"github.com/chamadaweb/chamada/core/user"
	emailsvc "github.com/chamadaweb/chamada/services/email"
	logsvc "github.com/chamadaweb/chamada/services/logger"
	sheetsvc "github.com/chamadaweb/chamada/services/sheets"
	"github.com/chamadaweb/chamada/storage/database"
	"github.com/chamadaweb/chamada/storage/database/docrepos"
)

func startManual() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	dbLogger.Enable(!conf.Debug)

	// set up DB & repos
	db := database.Open(conf, dbLogger)
	defer closeDB(conf, db, dbLogger)

	usrRepo := docrepos.NewUserRepository(db)
	schoolRepo := docrepos.NewSchoolRepository(db)
	attRepo := docrepos.NewAttendanceRepository(db)

	// set up services
	creds := user.NewCredentialVerifier(conf.PasswordScheme)
	mailSvc := emailsvc.NewService(conf, logger)
	schoolSvc := school.NewService(schoolRepo)
	usrSvc := user.NewService(usrRepo, schoolSvc, creds, mailSvc)
	attSvc := attendance.NewService(attRepo, logger)

	var sheets report.SheetWriter
	if conf.Sheets.SpreadsheetID != "" {
		w, err := sheetsvc.NewGoogleSheetsWriter(context.Background(), conf, logger)
		if err != nil {
			logger.Warn(fmt.Sprintf("sheets: disabled: %v", err), err)
		} else {
			sheets = w
		}
	}
	reportSvc := report.NewService(usrSvc, schoolSvc, attSvc, sheets)

	// =========================================================================
	// Initialize App

	validate := validator.New()
	translator := core.NewTranslator()
	initApp(conf, logger, validate, translator)
	defer logger.Info("Application stopped")

	seedSampleData(conf, logger, usrRepo, schoolRepo, creds)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	startDebugServer(conf, logger)

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:          conf,
			Logger:        logger,
			Store:         db,
			UserSvc:       usrSvc,
			SchoolSvc:     schoolSvc,
			AttendanceSvc: attSvc,
			ReportSvc:     reportSvc,
			Validate:      validate,
			Translator:    translator,
		},
	)

	serve(conf, logger, server)
}
