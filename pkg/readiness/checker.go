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
	"net/http"
	"sync"
	"time"

	"github.com/caas-team/readygate/internal/httpclient"
	"github.com/caas-team/readygate/internal/logger"
	"github.com/caas-team/readygate/pkg/backend"
	"github.com/caas-team/readygate/pkg/config"
	"github.com/caas-team/readygate/pkg/db"
)

// resultKey is the name the last result is stored under
const resultKey = "readiness"

// Checker runs the readiness probes against the backend
// and keeps the last result for the rest of the session.
type Checker struct {
	cfg        *config.Config
	clients    *backend.Clients
	validation config.Validation
	indexes    []IndexQuery
	client     *http.Client
	observers  []Observer
	db         db.DB[Result]
	now        func() time.Time
	// mu serializes runs, probes of one run never overlap with another run
	mu sync.Mutex
}

// Option configures a Checker
type Option func(*Checker)

// WithObserver adds an observer notified about every probe result
func WithObserver(o Observer) Option {
	return func(c *Checker) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// WithHTTPClient sets the client used by the connectivity probe
func WithHTTPClient(client *http.Client) Option {
	return func(c *Checker) {
		c.client = client
	}
}

// WithDB sets the store the last result is cached in
func WithDB(store db.DB[Result]) Option {
	return func(c *Checker) {
		c.db = store
	}
}

// WithIndexes replaces the compound queries probed for missing indexes
func WithIndexes(q ...IndexQuery) Option {
	return func(c *Checker) {
		c.indexes = q
	}
}

// New creates a Checker for the given clients.
// The validation is the outcome of the Firebase configuration check the clients were built from.
func New(cfg *config.Config, clients *backend.Clients, v config.Validation, opts ...Option) *Checker {
	c := &Checker{
		cfg:        cfg,
		clients:    clients,
		validation: v,
		indexes:    DefaultIndexes,
		db:         db.NewInMemory[Result](),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = httpclient.New(cfg.Checker.Timeout)
	}
	return c
}

// Run executes the readiness probes strictly in sequence and returns the aggregated result.
// Probe failures never escape as errors, they are part of the result.
func (c *Checker) Run(ctx context.Context) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	ctx = httpclient.IntoContext(ctx, c.client)
	log := logger.FromContext(ctx).With("project", c.cfg.Firebase.ProjectID, "mode", c.cfg.Checker.Mode)

	log.InfoContext(ctx, "Starting readiness check")
	res := Result{Status: StatusReady, CheckedAt: c.now()}

	if p, ok := c.configurationGate(); !ok {
		c.notify(ctx, ProbeConfiguration, p)
		res.record(ProbeConfiguration, p)
		res.fail(CategoryConfiguration, p.Message, Remediation(CategoryConfiguration, c.cfg.Firebase.ProjectID))
		log.ErrorContext(ctx, "Readiness check failed before any probe", "reason", p.Message)
		c.db.Save(resultKey, res)
		return res
	}

	probes := c.plan()
	for i, p := range probes {
		pr := c.runProbe(ctx, p)
		c.notify(ctx, p.name, pr)
		res.record(p.name, pr)

		if p.name == ProbeConnectivity && !pr.Passed {
			// an unreachable backend outranks earlier failures
			res.fail(CategoryNetwork, pr.Message, c.remediation(pr))
			log.WarnContext(ctx, "Backend not reachable, skipping remaining probes", "skipped", len(probes)-i-1)
			for _, rest := range probes[i+1:] {
				skipped := ProbeResult{Skipped: true, Optional: rest.optional}
				c.notify(ctx, rest.name, skipped)
				res.record(rest.name, skipped)
			}
			break
		}

		if pr.Passed || p.optional || res.Status == StatusFailed {
			continue
		}
		res.fail(pr.Category, pr.Message, c.remediation(pr))
	}

	if res.Ready() {
		log.InfoContext(ctx, "Readiness check passed", "probes", len(res.Order))
	} else {
		log.ErrorContext(ctx, "Readiness check failed", "category", res.Category, "reason", res.Reason)
	}
	c.db.Save(resultKey, res)
	return res
}

// Last returns the result of the latest run, if any
func (c *Checker) Last() (Result, bool) {
	return c.db.Get(resultKey)
}

// runProbe runs p bounded by the configured probe timeout, if any
func (c *Checker) runProbe(ctx context.Context, p probe) ProbeResult {
	if c.cfg.Checker.Timeout <= 0 {
		return timed(ctx, c.now, p)
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Checker.Timeout)
	defer cancel()
	return timed(ctx, c.now, p)
}

// configurationGate decides if any probe may run at all
func (c *Checker) configurationGate() (ProbeResult, bool) {
	if err := c.validation.Err(); err != nil {
		return ProbeResult{ErrorCode: CodeInvalidArgument, Category: CategoryConfiguration, Message: err.Error()}, false
	}
	if !c.clients.Available() {
		msg := "backend clients are not initialized"
		if c.clients != nil && c.clients.Err != nil {
			msg = c.clients.Err.Error()
		}
		return ProbeResult{ErrorCode: CodeNotInitialized, Category: CategoryConfiguration, Message: msg}, false
	}
	return ProbeResult{Passed: true}, true
}

// remediation returns the message shown for a failed probe.
// Failures without a targeted remediation surface their raw message.
func (c *Checker) remediation(p ProbeResult) string {
	if r := Remediation(p.Category, c.cfg.Firebase.ProjectID); r != "" {
		return r
	}
	return p.Message
}

func (c *Checker) notify(ctx context.Context, name string, p ProbeResult) {
	for _, o := range c.observers {
		o.Observe(ctx, name, p)
	}
}
