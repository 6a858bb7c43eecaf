package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

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

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)

	// set up DB
	db := database.Open(conf, logger)
	ctx, cancel := context.WithTimeout(context.Background(), conf.Database.ConnectTimeout)
	err := db.Ping(ctx)
	cancel()
	if err != nil {
		logger.Fatal(fmt.Sprintf("connecting to database: %v", err), err)
	}

	usrRepo := docrepos.NewUserRepository(db)
	schoolRepo := docrepos.NewSchoolRepository(db)

	// set up services
	creds := user.NewCredentialVerifier(conf.PasswordScheme)
	schoolSvc := school.NewService(schoolRepo)
	usrSvc := user.NewService(usrRepo, schoolSvc, creds, emailsvc.NewService(conf, logger))
	attSvc := attendance.NewService(docrepos.NewAttendanceRepository(db), logger)

	var sheets report.SheetWriter
	if conf.Sheets.SpreadsheetID != "" {
		w, err := sheetsvc.NewGoogleSheetsWriter(context.Background(), conf, logger)
		if err != nil {
			logger.Warn(fmt.Sprintf("sheets: disabled: %v", err), err)
		} else {
			sheets = w
		}
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	cli := commandLine{
		conf:       conf,
		usrRepo:    usrRepo,
		schoolRepo: schoolRepo,
		creds:      creds,
		usrSvc:     usrSvc,
		schoolSvc:  schoolSvc,
		attSvc:     attSvc,
		reportSvc:  report.NewService(usrSvc, schoolSvc, attSvc, sheets),
		validate:   validate,
		translator: translator,
		in:         os.Stdin,
		out:        os.Stdout,
	}
	err = cli.run(os.Args)

	closeCtx, closeCancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer closeCancel()
	if cerr := db.Close(closeCtx); cerr != nil {
		logger.Error("Failed to close", cerr)
	}

	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		closeCancel()
		os.Exit(1)
	}
}
