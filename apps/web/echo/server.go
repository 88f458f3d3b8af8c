package echoweb

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/darsban/core"
	"github.com/trezcool/darsban/core/gradebook"
	"github.com/trezcool/darsban/core/school"
	"github.com/trezcool/darsban/core/user"
)

type (
	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		UserSvc    *user.Service
		SchoolSvc  *school.Service
		Gradebook  *gradebook.Service
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(ctx context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		deps     Deps
		app      *echo.Echo
		auth     *authenticator
		dash     *dashboard
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps Deps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		auth:     newAuthenticator(deps.Conf, deps.UserSvc),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(localeMiddleware(conf))

	s.dash = newDashboard(s.deps, s.auth, s.registerStatic())
	s.app.Renderer = templRenderer{}
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps, s.dash, s.signalShutdown)
	s.app.Debug = conf.Debug

	registerDashboard(s.app, s.dash)
	registerAPI(s.app.Group("/api/v1"), s.deps, s.auth)
}

// registerStatic serves the embedded assets and the optional font file.
// It reports whether the font is available; a missing font is not an error.
func (s *server) registerStatic() (fontAvailable bool) {
	s.app.GET("/static/*", echo.WrapHandler(http.StripPrefix("/static/", http.FileServer(http.FS(staticFiles())))))

	path := s.deps.Conf.FontPath
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		s.deps.Logger.Warn("font not available, using the default font stack", map[string]interface{}{"path": path, "err": err})
		return false
	}
	s.app.File("/static/font", path)
	return true
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Start() {
	s.deps.Logger.Info("Starting server on " + s.deps.Conf.Server.Address)
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errors
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
