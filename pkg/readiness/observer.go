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

package readiness

import (
	"context"
	"log/slog"

	"github.com/caas-team/readygate/internal/logger"
)

// Observer is notified about every probe result of a run
type Observer interface {
	Observe(ctx context.Context, probe string, res ProbeResult)
}

// ObserverFunc adapts a function to an Observer
type ObserverFunc func(ctx context.Context, probe string, res ProbeResult)

func (f ObserverFunc) Observe(ctx context.Context, probe string, res ProbeResult) {
	f(ctx, probe, res)
}

// LogObserver writes every probe result to the logger of the context
type LogObserver struct{}

func (LogObserver) Observe(ctx context.Context, probe string, res ProbeResult) {
	log := logger.FromContext(ctx).With("probe", probe, "duration", res.Duration.String())
	switch {
	case res.Skipped:
		log.DebugContext(ctx, "Probe skipped")
	case res.Passed:
		log.InfoContext(ctx, "Probe passed", "message", res.Message)
	default:
		level := slog.LevelError
		if res.Optional {
			level = slog.LevelWarn
		}
		log.Log(ctx, level, "Probe failed",
			"code", res.ErrorCode,
			"category", res.Category,
			"message", res.Message,
		)
	}
}
