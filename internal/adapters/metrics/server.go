package metrics

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the Prometheus registry over HTTP: one mux.Handle plus a
// plain http.Server, with no grpc-gateway involved since this Controller
// runs in-process.
type Server struct {
	httpServer *http.Server
}

// NewServer builds a metrics HTTP server bound to addr (host:port), serving
// Registry at path. Returns nil if Registry has not been initialized
// (metrics disabled).
func NewServer(addr, path string) *Server {
	if Registry == nil {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(Registry, promhttp.HandlerOpts{EnableOpenMetrics: true}))
	return &Server{httpServer: &http.Server{Addr: addr, Handler: mux}}
}

// Start runs the metrics HTTP server in the background, logging (not
// returning) any error other than the expected shutdown error.
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
}

// Stop shuts the metrics HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
