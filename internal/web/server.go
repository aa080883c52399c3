package web

import (
	"context"
	"net/http"
	"time"
)

// Server wraps http.Server so the CLI only deals with Start/Shutdown.
type Server struct {
	http *http.Server
}

// NewServer builds the listener for the given port.
func NewServer(port string, handler http.Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start blocks serving requests until Shutdown or a listener error.
func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests. Running generation goroutines are not
// waited on; their jobs simply die with the process, as the store is
// in-memory anyway.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
