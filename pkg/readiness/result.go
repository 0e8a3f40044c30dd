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
	"time"
)

// Status is the verdict of a readiness check
type Status string

const (
	StatusReady  Status = "ready"
	StatusFailed Status = "failed"
)

// Probe names
const (
	ProbeConfiguration = "configuration"
	ProbeRegion        = "region"
	ProbeConnectivity  = "connectivity"
	ProbeRead          = "read"
	ProbeWrite         = "write"
	ProbeAuth          = "auth"
	ProbeStorage       = "storage"
)

// ProbeResult is the outcome of a single probe
type ProbeResult struct {
	Passed bool `json:"passed" yaml:"passed"`
	// Optional probes never fail the aggregate result
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty"`
	// Skipped is set when an earlier probe short-circuited the run
	Skipped   bool          `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	ErrorCode string        `json:"errorCode,omitempty" yaml:"errorCode,omitempty"`
	Category  Category      `json:"category,omitempty" yaml:"category,omitempty"`
	Message   string        `json:"message,omitempty" yaml:"message,omitempty"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Result is the aggregated outcome of a readiness check.
// It is either ready, or failed with a category and a reason.
type Result struct {
	Status      Status   `json:"status" yaml:"status"`
	Category    Category `json:"category,omitempty" yaml:"category,omitempty"`
	Reason      string   `json:"reason,omitempty" yaml:"reason,omitempty"`
	Remediation string   `json:"remediation,omitempty" yaml:"remediation,omitempty"`
	// Diagnostics holds the result of every probe by name
	Diagnostics map[string]ProbeResult `json:"diagnostics" yaml:"diagnostics"`
	// Order lists the probe names in execution order
	Order     []string  `json:"order" yaml:"order"`
	CheckedAt time.Time `json:"checkedAt" yaml:"checkedAt"`
}

// Ready returns true if the result allows normal operation
func (r Result) Ready() bool {
	return r.Status == StatusReady
}

// Executed returns the names of the probes that actually ran, in order
func (r Result) Executed() []string {
	var names []string
	for _, n := range r.Order {
		if p, ok := r.Diagnostics[n]; ok && !p.Skipped {
			names = append(names, n)
		}
	}
	return names
}

func (r *Result) record(name string, p ProbeResult) {
	if r.Diagnostics == nil {
		r.Diagnostics = map[string]ProbeResult{}
	}
	if _, ok := r.Diagnostics[name]; !ok {
		r.Order = append(r.Order, name)
	}
	r.Diagnostics[name] = p
}

func (r *Result) fail(c Category, reason, remediation string) {
	r.Status = StatusFailed
	r.Category = c
	r.Reason = reason
	r.Remediation = remediation
}
