package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

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

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// ServerParams holds everything the API server depends on.
type ServerParams struct {
	dig.In
	Conf          *core.Config
	Logger        core.Logger
	DB            *database.DB
	UserSvc       *user.Service
	SchoolSvc     *school.Service
	AttendanceSvc *attendance.Service
	ReportSvc     *report.Service
	Validate      *validator.Validate
	Translator    ut.Translator
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// newDB does not connect; the first query (or Ping) does.
func newDB(conf *core.Config, loggerParam DBLoggerParam) *database.DB {
	return database.Open(conf, loggerParam.Logger)
}

func newStore(db *database.DB) core.Store {
	return db
}

func newCredentialVerifier(conf *core.Config) user.CredentialVerifier {
	return user.NewCredentialVerifier(conf.PasswordScheme)
}

func newUnitNamer(svc *school.Service) user.UnitNamer {
	return svc
}

// newSheetWriter returns nil when no spreadsheet is configured or its client cannot be built;
// publishing reports is then unavailable but the API still serves.
func newSheetWriter(conf *core.Config, logger core.Logger) report.SheetWriter {
	if conf.Sheets.SpreadsheetID == "" {
		return nil
	}
	w, err := sheetsvc.NewGoogleSheetsWriter(context.Background(), conf, logger)
	if err != nil {
		logger.Warn(fmt.Sprintf("sheets: disabled: %v", err), err)
		return nil
	}
	return w
}

func newValidate() *validator.Validate {
	return validator.New()
}

func newServer(p ServerParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:          p.Conf,
		Logger:        p.Logger,
		Store:         p.DB,
		UserSvc:       p.UserSvc,
		SchoolSvc:     p.SchoolSvc,
		AttendanceSvc: p.AttendanceSvc,
		ReportSvc:     p.ReportSvc,
		Validate:      p.Validate,
		Translator:    p.Translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newStore))
	must(c.Provide(emailsvc.NewService))
	must(c.Provide(docrepos.NewUserRepository, dig.As(new(user.Repository))))
	must(c.Provide(docrepos.NewSchoolRepository, dig.As(new(school.Repository))))
	must(c.Provide(docrepos.NewAttendanceRepository, dig.As(new(attendance.Repository))))
	must(c.Provide(newCredentialVerifier))
	must(c.Provide(school.NewService))
	must(c.Provide(newUnitNamer))
	must(c.Provide(user.NewService))
	must(c.Provide(attendance.NewService))
	must(c.Provide(newSheetWriter))
	must(c.Provide(report.NewService))
	must(c.Provide(newValidate))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
