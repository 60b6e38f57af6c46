// Package server runs the accept loops of the file server and, if enabled,
// of the metrics endpoint.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/pelageech/folioserv/config"
	"github.com/pelageech/folioserv/handler"
	"github.com/pelageech/folioserv/listener"
	"github.com/pelageech/folioserv/metrics"
)

// readHeaderTimeout bounds how long a client may take to send the request
// headers. Handlers themselves have no deadline.
const readHeaderTimeout = 10 * time.Second

// Server serves the configured directory until its context ends.
type Server struct {
	cfg    config.Config
	logger *log.Logger
	out    io.Writer

	ready       chan struct{}
	addr        net.Addr
	metricsAddr net.Addr
}

// New creates a Server. The startup banner is written to out.
func New(cfg config.Config, logger *log.Logger, out io.Writer) *Server {
	return &Server{
		cfg:    cfg,
		logger: logger,
		out:    out,
		ready:  make(chan struct{}),
	}
}

// Ready is closed once the listeners are bound.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr is the bound address of the file server. Valid after Ready.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// MetricsAddr is the bound address of the metrics endpoint, nil when it
// is disabled. Valid after Ready.
func (s *Server) MetricsAddr() net.Addr {
	return s.metricsAddr
}

// Run binds the listeners and serves until ctx is done or a listener
// fails. It returns nil when stopped through ctx. The sockets are closed
// on every return path.
func (s *Server) Run(ctx context.Context) error {
	ln, err := listener.Listen(ctx, listener.Address(s.cfg.Host, s.cfg.Port))
	if err != nil {
		return err
	}
	defer ln.Close()

	var reg *prometheus.Registry
	var m *metrics.Metrics
	var metricsLn net.Listener
	if s.cfg.MetricsPort != 0 {
		metricsLn, err = listener.Listen(ctx, listener.Address(s.cfg.Host, s.cfg.MetricsPort))
		if err != nil {
			return err
		}
		defer metricsLn.Close()

		reg = prometheus.NewRegistry()
		m = metrics.New(reg)
		s.metricsAddr = metricsLn.Addr()
	}

	s.addr = ln.Addr()
	close(s.ready)

	files := &http.Server{
		Handler:           handler.New(http.Dir(s.cfg.Root), s.logger, m),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.ErrorLevel}),
	}
	servers := []*http.Server{files}

	s.banner()
	s.logger.Info("Serving", "dir", s.cfg.Root, "addr", s.addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serve(files, ln)
	})

	if metricsLn != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		metricsSrv := &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		}
		servers = append(servers, metricsSrv)

		s.logger.Info("Serving metrics", "addr", s.metricsAddr)
		g.Go(func() error {
			return serve(metricsSrv, metricsLn)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		for _, srv := range servers {
			_ = srv.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("Server stopped")
	return nil
}

func serve(srv *http.Server, ln net.Listener) error {
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", ln.Addr(), err)
	}
	return nil
}

func (s *Server) banner() {
	url := color.New(color.FgCyan).Sprint(listener.URL(s.addr))
	fmt.Fprintf(s.out, "Server running at %s\n", url)
	fmt.Fprintln(s.out, "Press Ctrl+C to stop the server")
}
