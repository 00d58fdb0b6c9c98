// Package httpapi exposes the account services over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/logging"
	"github.com/dmitrijs2005/accountkeeper/internal/server/auth"
	"github.com/dmitrijs2005/accountkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const shutdownTimeout = 5 * time.Second

// Services groups the use cases served by HTTPServer.
type Services struct {
	Users        *services.UserService
	Verification *services.VerificationService
	Profile      *services.ProfileService
}

type HTTPServer struct {
	address      string
	svc          Services
	codec        *auth.Codec
	accessSecret []byte
	metrics      *metrics.Metrics
	gatherer     prometheus.Gatherer
	logger       logging.Logger
	echo         *echo.Echo
}

// NewHTTPServer builds the router. m may be nil; when g is nil /metrics is
// not mounted.
func NewHTTPServer(address string, l logging.Logger, svc Services, codec *auth.Codec, accessSecret string, m *metrics.Metrics, g prometheus.Gatherer) *HTTPServer {
	s := &HTTPServer{
		address:      address,
		svc:          svc,
		codec:        codec,
		accessSecret: []byte(accessSecret),
		metrics:      m,
		gatherer:     g,
		logger:       l.With("module", "http_server"),
	}
	s.echo = s.routes()
	return s
}

// Handler returns the router, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler { return s.echo }

func (s *HTTPServer) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:     true,
		LogMethod:     true,
		LogURI:        true,
		LogRemoteIP:   true,
		LogLatency:    true,
		LogError:      true,
		HandleError:   true,
		LogValuesFunc: s.logRequest,
	}))
	e.Use(s.observe)

	e.POST("/users", s.Register)

	a := e.Group("/auth")
	a.POST("/sessions", s.Login)
	a.POST("/refresh-token", s.RefreshToken)

	em := e.Group("/email")
	em.POST("/send-email", s.SendVerifyEmail)
	em.POST("/verify-email", s.VerifyEmail)

	pw := e.Group("/password")
	pw.POST("/forgot", s.ForgotPassword)
	pw.POST("/reset", s.ResetPassword)

	addr := e.Group("/address", s.requireAccessToken, requireOwner)
	addr.POST("/create/:id", s.CreateAddress)
	addr.PUT("/update/:id", s.UpdateAddress)

	ph := e.Group("/phone", s.requireAccessToken, requireOwner)
	ph.POST("/create/:id", s.CreatePhone)
	ph.PUT("/update/:id", s.UpdatePhone)

	if s.gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler(s.gatherer)))
	}

	return e
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(listen)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
