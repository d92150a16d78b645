package runtime

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
)

var ErrShutdownTimeout = errors.New("graceful shutdown timed out")

// Service runs the HTTP search API until its context ends or Stop is called.
type Service struct {
	depOptions []DependencyOption
	listener   net.Listener

	ready    chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
}

func New(opts ...ServiceOption) *Service {
	s := &Service{
		ready: make(chan struct{}),
		stop:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Ready is closed once the listener accepts connections.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Stop begins a graceful shutdown. It is safe to call more than once.
func (s *Service) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Run builds the dependencies, serves, and drains in-flight requests before
// releasing the dependencies.
func (s *Service) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	deps, err := initializeDependencies(runCtx, s.depOptions...)
	if err != nil {
		return fmt.Errorf("initializing dependencies: %w", err)
	}

	server := deps.infra.httpServer
	if server == nil {
		deps.cleanup(ctx)

		return errors.New("no http server configured")
	}

	listener := s.listener
	if listener == nil {
		if listener, err = net.Listen("tcp", server.Addr); err != nil {
			deps.cleanup(ctx)

			return fmt.Errorf("listening on %s: %w", server.Addr, err)
		}
	}

	log := deps.infra.logger

	log.Info().
		Str("address", listener.Addr().String()).
		Str("storage", deps.config.Storage.Driver).
		Msg("serving members api")

	served := make(chan error, 1)

	go func() {
		served <- server.Serve(listener)
	}()

	close(s.ready)

	if deps.configLoader != nil {
		go func() {
			for err := range deps.configLoader.WatchConfigSignals(runCtx) {
				if err != nil {
					log.Error().Err(err).Msg("secrets reload failed")

					continue
				}

				log.Info().Msg("secrets reloaded")
			}
		}()
	}

	var serveErr error

	select {
	case <-runCtx.Done():
	case <-s.stop:
	case serveErr = <-served:
		if errors.Is(serveErr, http.ErrServerClosed) {
			serveErr = nil
		}
	}

	log.Info().Msg("shutting down")
	cancel()

	return errors.Join(serveErr, s.shutdown(ctx, deps))
}

func (s *Service) shutdown(ctx context.Context, deps *dependencies) error {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deps.config.HTTPServer.ShutdownTimeout)
	defer cancel()

	var errs []error

	if err := deps.infra.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}

	errs = append(errs, deps.release(shutdownCtx)...)

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		errs = append(errs, ErrShutdownTimeout)
	}

	deps.infra.logger.Info().Msg("shutdown complete")

	return errors.Join(errs...)
}
