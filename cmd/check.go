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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/caas-team/readygate/internal/logger"
	"github.com/caas-team/readygate/pkg/backend"
	"github.com/caas-team/readygate/pkg/readiness"
)

// errNotReady makes the check command exit with a non-zero status
var errNotReady = errors.New("backend is not ready")

type encoder interface {
	Encode(v any) error
}

// checkOutput is what the check command prints
type checkOutput struct {
	Result readiness.Result `json:"result" yaml:"result"`
	Report readiness.Report `json:"report" yaml:"report"`
}

// NewCmdCheck creates a new check command
func NewCmdCheck() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run the readiness check once",
		Long:  `Runs the readiness probes once, prints the result with its diagnostic report and exits non-zero if the backend is not ready`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logger.IntoContext(cmd.Context(), logger.NewLogger())
			return runCheck(ctx, cmd.OutOrStdout(), output, backend.Firebase)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format, one of text, json, yaml")

	return cmd
}

func runCheck(ctx context.Context, w io.Writer, format string, connect backend.Connector) (err error) {
	ctx, s, err := newSession(ctx, connect)
	if err != nil {
		return err
	}
	defer closeSession(ctx, s, &err)

	out := checkOutput{Result: s.checker.Run(ctx)}
	out.Report = s.checker.Report(ctx)

	if err := render(w, format, out); err != nil {
		return err
	}
	if !out.Result.Ready() {
		return errNotReady
	}
	return nil
}

// render writes out in the given format
func render(w io.Writer, format string, out checkOutput) error {
	var enc encoder
	switch strings.ToLower(format) {
	case "json":
		je := json.NewEncoder(w)
		je.SetIndent("", "  ")
		enc = je
	case "yaml":
		enc = yaml.NewEncoder(w)
	case "text", "":
		return renderText(w, out)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return enc.Encode(out)
}

func renderText(w io.Writer, out checkOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	res := out.Result

	fmt.Fprintf(tw, "Status:\t%s\n", res.Status)
	if !res.Ready() {
		fmt.Fprintf(tw, "Category:\t%s\n", res.Category)
		fmt.Fprintf(tw, "Reason:\t%s\n", res.Reason)
		fmt.Fprintf(tw, "Remediation:\t%s\n", res.Remediation)
	}

	fmt.Fprintln(tw, "\nPROBE\tRESULT\tDURATION\tMESSAGE")
	for _, name := range res.Order {
		p := res.Diagnostics[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, probeState(p), p.Duration.Round(time.Millisecond), p.Message)
	}

	fmt.Fprintln(tw, "\nSEVERITY\tCATEGORY\tFINDING\tFIX")
	for _, f := range out.Report.Findings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", f.Severity, f.Category, f.Message, f.SuggestedFix)
	}
	return tw.Flush()
}

func probeState(p readiness.ProbeResult) string {
	switch {
	case p.Skipped:
		return "skipped"
	case p.Passed:
		return "passed"
	case p.Optional:
		return "warning"
	default:
		return "failed"
	}
}
