// Package web implements the HTTP ingestion surface: frame submission,
// supersession probes, and display metadata.
//
// Grounded on experimental/cmd/periph-web's bootstrap (net.Listen +
// http.Server.Serve in a goroutine, graceful Close) and on the Rust
// source's web/mod.rs (WebServerConfig/WebServerControl split between
// transport config and domain callbacks).
package web

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"

	"github.com/rasgbd/rasgbd/internal/frame"
)

// Control bundles the domain callbacks the ingestion surface invokes. The
// queue (or whatever sits behind the generator stack) is reached only
// through these two closures — the web package never imports the
// scheduler directly, mirroring the Rust source's WebServerContext
// boundary.
type Control struct {
	DisplayWidth  uint32
	DisplayHeight uint32
	DisplayFPS    float64

	// OnFrameReceived enqueues a validated frame. Returning an error maps
	// to a 400 response (the frame was rejected by scheduling policy, not
	// malformed).
	OnFrameReceived func(channel int8, unixMicros uint64, f frame.Frame) error

	// OnFrameSupersededCheck answers a supersession probe without
	// mutating anything.
	OnFrameSupersededCheck func(channel int8, unixMicros uint64) bool
}

// Config configures the listening socket.
type Config struct {
	Addr    string
	Verbose bool
}

// Server is the HTTP ingestion server.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	control    Control
}

// NewServer builds and starts a Server listening on cfg.Addr. It returns
// once the listener is bound; requests are served from a background
// goroutine.
func NewServer(cfg Config, control Control) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("web: listen on %s: %w", cfg.Addr, err)
	}

	s := &Server{listener: ln, control: control}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /frame/{unixMicros}", s.handlePostFrame)
	mux.HandleFunc("POST /frame/{unixMicros}/channel/{channel}", s.handlePostFrame)
	mux.HandleFunc("HEAD /frame/{unixMicros}", s.handleHeadFrame)
	mux.HandleFunc("HEAD /frame/{unixMicros}/channel/{channel}", s.handleHeadFrame)
	mux.HandleFunc("GET /meta", s.handleMeta)

	var handler http.Handler = mux
	if cfg.Verbose {
		handler = loggingHandler(handler)
	}

	s.httpServer = &http.Server{Handler: handler}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("web: serve error: %v", err)
		}
	}()

	return s, nil
}

// Addr returns the bound address, useful when Config.Addr used a ":0" port.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Close gracefully shuts the server down, waiting for in-flight requests to
// complete or ctx to expire.
func (s *Server) Close(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func loggingHandler(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("web: %s %s", r.Method, r.URL.Path)
		h.ServeHTTP(w, r)
	})
}

// parseChannel extracts the channel path parameter, defaulting to 0 (the
// unprefixed /frame/{unixMicros} route).
func parseChannel(r *http.Request) (int8, error) {
	raw := r.PathValue("channel")
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid channel %q: %w", raw, err)
	}
	return int8(v), nil
}

func parseUnixMicros(r *http.Request) (uint64, error) {
	raw := r.PathValue("unixMicros")
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid unix_micros %q: %w", raw, err)
	}
	return v, nil
}

// decompressBody wraps r.Body according to Content-Encoding, the Go
// translation of the Rust source's tower_http RequestDecompressionLayer
// (see DESIGN.md for why this is hand-rolled against the standard library
// rather than imported: no decompression-middleware crate appears anywhere
// in the corpus).
func decompressBody(r *http.Request) (io.ReadCloser, error) {
	switch r.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(r.Body)
	case "deflate":
		return flate.NewReader(r.Body), nil
	default:
		return r.Body, nil
	}
}
