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
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/caas-team/readygate/internal/helper"
	"github.com/caas-team/readygate/internal/httpclient"
	"github.com/caas-team/readygate/internal/logger"
	"github.com/caas-team/readygate/pkg/backend"
)

// IndexQuery is a compound query shape the application issues at runtime:
// an equality filter on Field ordered by timestamp, newest first.
type IndexQuery struct {
	Field string
	Value any
}

// DefaultIndexes are the compound queries of the listing pages
var DefaultIndexes = []IndexQuery{
	{Field: "userRef", Value: "readygate-probe"},
	{Field: "type", Value: "rent"},
	{Field: "offer", Value: true},
}

const (
	indexProbePrefix = "index:"
	orderField       = "timestamp"
	setupDocument    = "init"
)

// ProbeName returns the name of the probe checking this index
func (q IndexQuery) ProbeName() string {
	return indexProbePrefix + q.Field
}

type probe struct {
	name     string
	optional bool
	run      func(ctx context.Context) ProbeResult
}

// outcome converts the error of a backend call into a ProbeResult
func outcome(err error, passed string) ProbeResult {
	if err == nil {
		return ProbeResult{Passed: true, Message: passed}
	}
	code := ErrorCode(err)
	return ProbeResult{
		ErrorCode: code,
		Category:  Classify(code),
		Message:   err.Error(),
	}
}

// regionProbe verifies the store is bound to the configured project and database
func (c *Checker) regionProbe(_ context.Context) ProbeResult {
	store := c.clients.Store
	project, database := store.ProjectID(), store.DatabaseID()
	res := ProbeResult{Category: CategoryConfiguration}

	switch {
	case len(c.cfg.Checker.ExpectedProjectIDs) > 0 && !slices.Contains(c.cfg.Checker.ExpectedProjectIDs, project):
		res.Message = fmt.Sprintf("project %q is not one of the expected projects %v", project, c.cfg.Checker.ExpectedProjectIDs)
	case database != c.cfg.Checker.ExpectedDatabase:
		res.Message = fmt.Sprintf("store uses database %q, expected %q", database, c.cfg.Checker.ExpectedDatabase)
	default:
		return ProbeResult{Passed: true, Message: fmt.Sprintf("project %s, database %s", project, database)}
	}
	return res
}

// connectivityProbe checks the backend endpoint is reachable.
// Any http response counts, the status code is irrelevant.
func (c *Checker) connectivityProbe(ctx context.Context) ProbeResult {
	target := c.cfg.ConnectivityTarget()
	log := logger.FromContext(ctx).With("url", target)

	var status string
	reach := helper.Retry(func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, http.NoBody)
		if err != nil {
			return err
		}
		resp, err := httpclient.FromContext(ctx).Do(req)
		if err != nil {
			log.DebugContext(ctx, "Backend endpoint not reachable", "error", err)
			return err
		}
		status = resp.Status
		return resp.Body.Close()
	}, c.cfg.Checker.Retry)

	if err := reach(ctx); err != nil {
		return ProbeResult{
			ErrorCode: ErrorCode(err),
			Category:  CategoryNetwork,
			Message:   fmt.Sprintf("cannot reach %s: %v", target, err),
		}
	}
	return ProbeResult{Passed: true, Message: fmt.Sprintf("%s answered %s", target, status)}
}

func (c *Checker) readProbe(ctx context.Context) ProbeResult {
	collection := c.cfg.Checker.ReadCollection
	n, err := c.clients.Store.Query(ctx, backend.Query{Collection: collection, Limit: 1})
	return outcome(err, fmt.Sprintf("read %d document(s) from %s", n, collection))
}

func (c *Checker) indexProbe(q IndexQuery) func(ctx context.Context) ProbeResult {
	return func(ctx context.Context) ProbeResult {
		collection := c.cfg.Checker.ReadCollection
		shape := fmt.Sprintf("%s(%s asc, %s desc)", collection, q.Field, orderField)

		_, err := c.clients.Store.Query(ctx, backend.Query{
			Collection: collection,
			Filters:    []backend.Filter{{Field: q.Field, Op: "==", Value: q.Value}},
			OrderBy:    orderField,
			Direction:  backend.Desc,
			Limit:      1,
		})
		res := outcome(err, fmt.Sprintf("index %s exists", shape))
		if res.ErrorCode == CodeFailedPrecondition {
			res.Message = fmt.Sprintf("index %s is missing, create it at %s", shape, IndexConsoleURL(c.cfg.Firebase.ProjectID))
		}
		return res
	}
}

// writeProbe writes a marker document and reads it back
func (c *Checker) writeProbe(ctx context.Context) ProbeResult {
	collection := c.cfg.Checker.SetupCollection
	marker := map[string]any{
		"initialized": true,
		"timestamp":   c.now().UTC(),
		"version":     "1.0",
		"project":     c.cfg.Firebase.ProjectID,
	}
	if err := c.clients.Store.Set(ctx, collection, setupDocument, marker); err != nil {
		return outcome(err, "")
	}

	data, err := c.clients.Store.Get(ctx, collection, setupDocument)
	if err != nil {
		return outcome(err, "")
	}
	if initialized, _ := data["initialized"].(bool); !initialized {
		return ProbeResult{
			ErrorCode: CodeDataLoss,
			Category:  CategoryUnknown,
			Message:   fmt.Sprintf("marker %s/%s was written but could not be read back", collection, setupDocument),
		}
	}
	return ProbeResult{Passed: true, Message: fmt.Sprintf("wrote and read back %s/%s", collection, setupDocument)}
}

func (c *Checker) authProbe(ctx context.Context) ProbeResult {
	res := outcome(c.clients.Auth.Probe(ctx), "auth service answered")
	if !res.Passed && res.Category == CategoryUnknown {
		res.Category = CategoryAuthentication
	}
	return res
}

func (c *Checker) storageProbe(ctx context.Context) ProbeResult {
	return outcome(c.clients.Storage.Probe(ctx), fmt.Sprintf("bucket %s is readable", c.clients.Storage.Bucket()))
}

// plan returns the probes of a run in execution order
func (c *Checker) plan() []probe {
	probes := []probe{
		{name: ProbeRegion, run: c.regionProbe},
		{name: ProbeConnectivity, run: c.connectivityProbe},
		{name: ProbeRead, run: c.readProbe},
	}
	for _, q := range c.indexes {
		probes = append(probes, probe{name: q.ProbeName(), run: c.indexProbe(q)})
	}
	if c.cfg.Checker.IsSetup() {
		probes = append(probes,
			probe{name: ProbeWrite, optional: true, run: c.writeProbe},
			probe{name: ProbeAuth, optional: true, run: c.authProbe},
			probe{name: ProbeStorage, optional: true, run: c.storageProbe},
		)
	}
	return probes
}

func timed(ctx context.Context, now func() time.Time, p probe) ProbeResult {
	start := now()
	res := p.run(ctx)
	res.Duration = now().Sub(start)
	res.Optional = p.optional
	return res
}
