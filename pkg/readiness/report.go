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
	"net"
	"strings"
	"time"

	"github.com/caas-team/readygate/pkg/config"
)

// Severity of a Finding
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is a single entry of the diagnostic report
type Finding struct {
	Category     Category `json:"category" yaml:"category"`
	Message      string   `json:"message" yaml:"message"`
	Severity     Severity `json:"severity" yaml:"severity"`
	SuggestedFix string   `json:"suggestedFix,omitempty" yaml:"suggestedFix,omitempty"`
}

// Report is the diagnostic report of a readiness check.
// It is built once and only read afterwards.
type Report struct {
	Findings    []Finding `json:"findings" yaml:"findings"`
	GeneratedAt time.Time `json:"generatedAt" yaml:"generatedAt"`
}

// Healthy returns true if the report has no error findings
func (r Report) Healthy() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Count returns the number of findings with the given severity
func (r Report) Count(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// Report returns the diagnostic report for the last result.
// If no check ran yet, one is run first.
func (c *Checker) Report(ctx context.Context) Report {
	res, ok := c.Last()
	if !ok {
		res = c.Run(ctx)
	}
	r := Diagnose(c.cfg, c.validation, res)
	r.GeneratedAt = c.now()
	return r
}

type reportBuilder struct {
	findings []Finding
}

func (b *reportBuilder) add(c Category, s Severity, msg, fix string) {
	b.findings = append(b.findings, Finding{Category: c, Message: msg, Severity: s, SuggestedFix: fix})
}

// Diagnose builds the findings for a configuration, its validation and a readiness result
func Diagnose(cfg *config.Config, v config.Validation, res Result) Report {
	b := &reportBuilder{}
	project := cfg.Firebase.ProjectID

	if len(v.Missing) > 0 {
		b.add(CategoryConfiguration, SeverityError,
			fmt.Sprintf("Missing firebase parameters: %s", strings.Join(v.Missing, ", ")),
			"Set the missing values in the config file or as FIREBASE_* environment variables")
	}
	if len(v.Placeholders) > 0 {
		b.add(CategoryConfiguration, SeverityError,
			fmt.Sprintf("Firebase parameters contain placeholder values: %s", strings.Join(v.Placeholders, ", ")),
			"Replace the placeholder values with the configuration from the Firebase console")
	}
	if project != "" && cfg.Firebase.AuthDomain != "" && !authDomainMatches(cfg.Firebase.AuthDomain, project) {
		b.add(CategoryAuthentication, SeverityWarning,
			fmt.Sprintf("Auth domain %q does not belong to project %q", cfg.Firebase.AuthDomain, project),
			fmt.Sprintf("Use %s.firebaseapp.com or a custom domain connected to the project", project))
	}

	quota := false
	for _, name := range res.Order {
		p := res.Diagnostics[name]
		if p.Passed || p.Skipped {
			continue
		}
		if p.ErrorCode == CodeResourceExhausted || strings.Contains(strings.ToLower(p.Message), "quota") {
			quota = true
		}
		if name == ProbeConfiguration && !v.OK() {
			continue
		}
		sev := SeverityError
		if p.Optional {
			sev = SeverityWarning
		}
		fix := Remediation(p.Category, project)
		if fix == "" {
			fix = "Investigate the error reported by the backend"
		}
		b.add(p.Category, sev, fmt.Sprintf("%s: %s", name, p.Message), fix)
	}
	if quota {
		b.add(CategoryBilling, SeverityError,
			"Quota exceeded, billing may not be enabled",
			Remediation(CategoryBilling, project))
	}

	if isLocalAddress(cfg.Api.ListeningAddress) {
		b.add(CategoryNetwork, SeverityWarning,
			fmt.Sprintf("Listening on %s, the page tree is only reachable from this host", cfg.Api.ListeningAddress),
			"Listen on a public address for production-like behavior")
	}
	if cfg.Firebase.UsesEmulator() {
		b.add(CategoryConfiguration, SeverityWarning,
			fmt.Sprintf("Using the Firestore emulator at %s", cfg.Firebase.EmulatorHost),
			"Unset the emulator host outside of local development")
	}
	if cfg.Checker.IsSetup() {
		b.add(CategoryConfiguration, SeverityInfo,
			"Setup mode writes a marker document and probes auth and storage", "")
	}
	b.add(CategoryBilling, SeverityInfo, "Ensure Firebase billing is enabled for production usage", "")

	return Report{Findings: b.findings}
}

func authDomainMatches(domain, project string) bool {
	d := strings.ToLower(domain)
	p := strings.ToLower(project)
	switch {
	case strings.HasSuffix(d, ".firebaseapp.com"), strings.HasSuffix(d, ".web.app"):
		return d == p+".firebaseapp.com" || d == p+".web.app"
	default:
		// custom domains cannot be verified without a lookup
		return true
	}
}

func isLocalAddress(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
