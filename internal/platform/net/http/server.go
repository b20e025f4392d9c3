package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"ksefconnect/internal/platform/config"
	"ksefconnect/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// Server owns the chi mux and the listener lifecycle
type Server struct {
	mux   *chi.Mux
	srv   *http.Server
	grace time.Duration
}

// NewServer reads ADDR (default ":4000"), READ_HEADER_TIMEOUT and SHUTDOWN_GRACE from cfg
func NewServer(cfg config.Conf) *Server {
	mux := chi.NewRouter()
	return &Server{
		mux:   mux,
		grace: cfg.MayDuration("SHUTDOWN_GRACE", 15*time.Second),
		srv: &http.Server{
			Addr:              cfg.MayString("ADDR", ":4000"),
			Handler:           mux,
			ReadHeaderTimeout: cfg.MayDuration("READ_HEADER_TIMEOUT", 10*time.Second),
		},
	}
}

// Router is the mux as a Router
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Run serves until ctx is cancelled, then drains in flight requests for the grace period
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	log := logger.Named("http")
	log.Info().Str("addr", ln.Addr().String()).Msg("http listening")

	errc := make(chan error, 1)
	go func() { errc <- s.srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("grace", s.grace).Msg("http shutting down")
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.grace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
