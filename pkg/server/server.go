package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

type Server struct {
	*http.Server
	*http.ServeMux
}

func NewServer(port int) *Server {
	mux := http.NewServeMux()
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           logged(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &Server{
		Server:   server,
		ServeMux: mux,
	}
}

// ListenAndServeContext serves until the context is done and
// shuts down gracefully afterwards.
func (s *Server) ListenAndServeContext(ctx context.Context, shutdownTimeout time.Duration) error {
	l, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.ServeContext(ctx, l, shutdownTimeout)
}

func (s *Server) ServeContext(ctx context.Context, l net.Listener, shutdownTimeout time.Duration) error {
	serverErr := make(chan error, 1)
	go func() {
		log.Info("serving on {{addr}}", "addr", l.Addr().String())
		serverErr <- s.Serve(l)
	}()
	var err error
	select {
	case <-ctx.Done():
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = s.Shutdown(ctx)
	case err = <-serverErr:
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func logged(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug("{{method}} {{url}}", "method", r.Method, "url", r.URL.String(), "request", r.Header.Get("X-Request-ID"))
		h.ServeHTTP(w, r)
	})
}
