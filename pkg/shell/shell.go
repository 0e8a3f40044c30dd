// readygate
// (C) 2024, Deutsche Telekom IT GmbH
//
// Deutsche Telekom IT GmbH and all other contributors /
// copyright owners license this file to you under the Apache
// License, Version 2.0 (the "License"); you may not use this
// file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package shell serves the application behind the readiness gate.
// It starts in the checking state and moves exactly once, to ready
// or failed, depending on the result of the readiness check.
package shell

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/caas-team/readygate/internal/logger"
	"github.com/caas-team/readygate/pkg/config"
	"github.com/caas-team/readygate/pkg/readiness"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Checker runs the readiness check the shell waits for
type Checker interface {
	Run(ctx context.Context) readiness.Result
	Last() (readiness.Result, bool)
	Report(ctx context.Context) readiness.Report
}

// Shell is the application shell driven by the readiness check
type Shell struct {
	cfg     *config.Config
	checker Checker
	pages   http.Handler
	metrics Metrics
	state   *machine
	router  chi.Router
	server  *http.Server
	now     func() time.Time

	// restart is closed once a retry was requested
	restart     chan struct{}
	restartOnce sync.Once
}

// New creates a new Shell in the checking state.
// pages is mounted as page tree once the shell is ready.
func New(ctx context.Context, cfg *config.Config, checker Checker, pages http.Handler, metrics Metrics) *Shell {
	r := chi.NewRouter()
	s := &Shell{
		cfg:     cfg,
		checker: checker,
		pages:   pages,
		metrics: metrics,
		state:   newMachine(time.Now()),
		router:  r,
		server:  &http.Server{Addr: cfg.Api.ListeningAddress, Handler: r, ReadHeaderTimeout: readHeaderTimeout},
		now:     time.Now,
		restart: make(chan struct{}),
	}

	if err := metrics.GetRegistry().Register(s.state.gauge); err != nil {
		logger.FromContext(ctx).ErrorContext(ctx, "Could not add shell state collector to registry", "error", err)
	}
	s.register(ctx)
	return s
}

// Handler returns the http handler of the shell
func (s *Shell) Handler() http.Handler {
	return s.router
}

// State returns the current state of the shell
func (s *Shell) State() State {
	st, _ := s.state.current()
	return st
}

// Run serves the shell and runs the readiness check in the background.
// It blocks until the context is done, the server fails or a retry was
// requested, in which case ErrRestart is returned.
func (s *Shell) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	cErr := make(chan error, 1)
	go func() {
		defer close(cErr)
		log.InfoContext(ctx, "Serving shell", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorContext(ctx, "Failed to serve shell", "error", err)
			cErr <- err
		}
	}()

	cRes := make(chan readiness.Result, 1)
	go func() {
		cRes <- s.checker.Run(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			return s.Shutdown(ctx)
		case err, ok := <-cErr:
			if !ok {
				log.InfoContext(ctx, "Shell server closed")
				return nil
			}
			return fmt.Errorf("failed serving shell: %w", err)
		case res := <-cRes:
			cRes = nil
			s.apply(ctx, res)
		case <-s.restart:
			log.InfoContext(ctx, "Retry requested, restarting")
			if err := s.Shutdown(context.WithoutCancel(ctx)); err != nil {
				return errors.Join(ErrRestart, err)
			}
			return ErrRestart
		}
	}
}

// apply moves the shell to the state matching the result
func (s *Shell) apply(ctx context.Context, res readiness.Result) {
	log := logger.FromContext(ctx)
	to := StateFailed
	if res.Ready() {
		to = StateReady
	}
	if err := s.state.transition(to, s.now()); err != nil {
		log.ErrorContext(ctx, "Could not apply readiness result", "error", err)
		return
	}
	if to == StateReady {
		log.InfoContext(ctx, "Shell is ready")
		return
	}
	log.WarnContext(ctx, "Shell failed", "category", res.Category, "reason", res.Reason)
}

// requestRestart asks Run to return ErrRestart.
// Only the first request counts.
func (s *Shell) requestRestart() {
	s.restartOnce.Do(func() {
		close(s.restart)
	})
}

// Shutdown gracefully shuts down the shell server
// Returns an error if an error is present in the context
// or if the server cannot be shut down
func (s *Shell) Shutdown(ctx context.Context) error {
	errC := ctx.Err()
	log := logger.FromContext(ctx)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.server.Shutdown(shutdownCtx)
	if err != nil {
		log.ErrorContext(ctx, "Failed to shutdown shell server", "error", err)
		return fmt.Errorf("failed shutting down shell: %w", errors.Join(errC, err))
	}
	return errC
}
