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

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/caas-team/readygate/internal/logger"
	"github.com/caas-team/readygate/pkg/backend"
	"github.com/caas-team/readygate/pkg/config"
	"github.com/caas-team/readygate/pkg/readiness"
)

// session holds every component built for one run of readygate.
// A restart discards the session and builds a new one from scratch.
type session struct {
	cfg        *config.Config
	validation config.Validation
	clients    *backend.Clients
	checker    *readiness.Checker
	metrics    *readiness.Metrics
}

// newSession reads the configuration and constructs the backend clients and the checker.
// The returned context carries the filtered logger of the session.
func newSession(ctx context.Context, connect backend.Connector) (context.Context, *session, error) {
	if err := initConfig(); err != nil {
		return ctx, nil, err
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return ctx, nil, err
	}

	log := logger.NewLogger(logger.NewFilterHandler(logger.DefaultHandler(), cfg.Logging.Suppress...))
	ctx = logger.IntoContext(ctx, log)

	if err := cfg.Validate(ctx); err != nil {
		log.ErrorContext(ctx, "Error while validating the config", "error", err)
		return ctx, nil, err
	}

	v := cfg.Firebase.Check(ctx)
	clients := backend.New(ctx, cfg.Firebase, v, connect)
	metrics := readiness.NewMetrics()
	checker := readiness.New(cfg, clients, v,
		readiness.WithObserver(readiness.LogObserver{}),
		readiness.WithObserver(metrics),
	)

	return ctx, &session{
		cfg:        cfg,
		validation: v,
		clients:    clients,
		checker:    checker,
		metrics:    metrics,
	}, nil
}

// Close releases the backend clients of the session
func (s *session) Close(ctx context.Context) error {
	if err := s.clients.Close(ctx); err != nil {
		return fmt.Errorf("failed to close backend clients: %w", err)
	}
	return nil
}

// closeSession closes s and joins the error into err
func closeSession(ctx context.Context, s *session, err *error) {
	if cErr := s.Close(ctx); cErr != nil {
		*err = errors.Join(*err, cErr)
	}
}
