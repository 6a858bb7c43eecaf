package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/chamadaweb/chamada/core"
	"github.com/chamadaweb/chamada/core/attendance"
	"github.com/chamadaweb/chamada/core/report"
	"github.com/chamadaweb/chamada/core/school"
	"github.com/chamadaweb/chamada/core/user"
)

const welcomeMessage = "Sistema de Chamada - IOS API"

type (
	// StoreChecker reports on the document store backing the services.
	StoreChecker interface {
		Driver() string
		Ping(ctx context.Context) error
	}

	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Store          StoreChecker
		UserSvc        *user.Service
		SchoolSvc      *school.Service
		AttendanceSvc  *attendance.Service
		ReportSvc      *report.Service
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug

	s.app.Pre(corsMiddleware(conf.Server.CORSOrigins))
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(conf, s.deps.Logger, s.signalShutdown)

	g := s.app.Group(conf.Server.BasePath)
	g.GET("", home)
	g.GET("/health/db", s.healthDB)

	registerAuthAPI(g, s.deps.UserSvc, s.deps.Validate, s.deps.Translator)
	registerUserAPI(g, s.deps.UserSvc, s.deps.Validate, s.deps.Translator)
	registerSchoolAPI(g, s.deps.SchoolSvc, s.deps.Validate, s.deps.Translator)
	registerAttendanceAPI(g, s.deps.AttendanceSvc, s.deps.Validate, s.deps.Translator)
	registerReportAPI(g, s.deps.ReportSvc, s.deps.Logger)
}

// Start listens on the configured address until the server is shut down.
// Listening failures are sent to Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

// ShutdownSignal receives on SIGINT, SIGTERM or when a handler fails with a core shutdown error.
func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already signaled
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, MessageResponse{Message: welcomeMessage})
}

func (s *Server) healthDB(ctx echo.Context) error {
	if err := s.deps.Store.Ping(ctx.Request().Context()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: s.deps.Store.Driver()})
}
