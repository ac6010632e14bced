package server

import (
	stderrors "errors"
	"net"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/nahidhasan98/webhook-shunt/internal/config"
	"github.com/nahidhasan98/webhook-shunt/internal/errors"
	"github.com/nahidhasan98/webhook-shunt/internal/handlers"
	"github.com/nahidhasan98/webhook-shunt/internal/logger"
	"github.com/nahidhasan98/webhook-shunt/internal/middleware"
)

// Server accepts webhook deliveries. net/http serves every connection on
// its own goroutine; there is no connection limit.
type Server struct {
	cfg        config.ServerConfig
	httpServer *http.Server
	listener   net.Listener
	handler    *handlers.Handler
	middleware *middleware.Middleware
	log        *logger.Logger
}

// New creates a new HTTP server
func New(cfg config.ServerConfig, handler *handlers.Handler, log *logger.Logger) *Server {
	return &Server{
		cfg:        cfg,
		handler:    handler,
		middleware: middleware.New(log),
		log:        log,
	}
}

// Routes returns the routed handler. Deliveries are accepted on any path
// and with any method; only POST is acted on.
func (s *Server) Routes() http.Handler {
	webhook := http.HandlerFunc(s.handler.Webhook)

	router := httprouter.New()
	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false
	router.HandleMethodNotAllowed = false
	router.HandleOPTIONS = false

	router.HandlerFunc(http.MethodGet, "/health", s.handler.HealthCheck)
	router.Handler(http.MethodPost, "/", webhook)
	router.Handler(http.MethodPost, "/webhook", webhook)
	router.NotFound = webhook

	return s.middleware.Chain(router)
}

// Start binds the listener and serves in the background. A bind failure
// is returned as BIND_FAILED; later serve errors are sent to errs.
func (s *Server) Start(errs chan<- error) error {
	addr := s.cfg.Address()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.BindFailed(addr, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:     s.Routes(),
		ReadTimeout: s.cfg.ReadTimeout,
	}

	s.log.Infof("HTTP server listening on %s", ln.Addr())

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	return nil
}

// Addr returns the bound address, or "" before Start
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Close stops accepting connections and drops open ones. Handlers that
// are still running are not waited for.
func (s *Server) Close() error {
	if s.httpServer == nil {
		return nil
	}

	if err := s.httpServer.Close(); err != nil {
		return err
	}

	s.log.Info("HTTP server stopped")
	return nil
}
