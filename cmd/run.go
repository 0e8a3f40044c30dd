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
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/caas-team/readygate/internal/logger"
	"github.com/caas-team/readygate/pkg/backend"
	"github.com/caas-team/readygate/pkg/shell"
)

// NewCmdRun creates a new run command
func NewCmdRun() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run readygate",
		Long: "readygate checks the backend and serves the app's pages once it is ready.\n" +
			"A failed check is final until a retry is requested, which restarts readygate from scratch.",
		RunE: run,
	}
}

// run is the entry point to start readygate
func run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = logger.IntoContext(ctx, logger.NewLogger())

	err := runUntilDone(ctx, func(ctx context.Context) error {
		return runSession(ctx, backend.Firebase)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// runUntilDone runs once again every time it requests a restart
func runUntilDone(ctx context.Context, once func(ctx context.Context) error) error {
	log := logger.FromContext(ctx)
	for i := 1; ; i++ {
		err := once(ctx)
		if !errors.Is(err, shell.ErrRestart) {
			return err
		}
		log.InfoContext(ctx, "Restarting readygate", "session", i+1)
	}
}

// runSession builds all components from scratch and serves the shell
func runSession(ctx context.Context, connect backend.Connector) (err error) {
	ctx, s, err := newSession(ctx, connect)
	if err != nil {
		return err
	}
	defer closeSession(ctx, s, &err)

	pages := shell.Pages(ctx, s.cfg.Api.StaticDir)
	sh := shell.New(ctx, s.cfg, s.checker, pages, shell.NewMetrics(s.metrics.Collectors()...))

	logger.FromContext(ctx).InfoContext(ctx, "Running readygate", "mode", s.cfg.Checker.Mode)
	return sh.Run(ctx)
}
