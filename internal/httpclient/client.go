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

package httpclient

import (
	"context"
	"net/http"
	"time"

	"github.com/caas-team/readygate/internal/logger"
)

// DefaultTimeout is used by New when no positive timeout is given
const DefaultTimeout = 10 * time.Second

type client struct{}

// New returns a http.Client for outgoing probe requests with the given timeout.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		// Redirects are reported as-is, a redirect already proves reachability.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// IntoContext embeds the provided http.Client into the given context and returns the modified context.
func IntoContext(ctx context.Context, c *http.Client) context.Context {
	return context.WithValue(ctx, client{}, c)
}

// FromContext extracts the http.Client from the provided context.
// If the context does not have a client it returns http.DefaultClient.
func FromContext(ctx context.Context) *http.Client {
	if ctx != nil {
		if c, ok := ctx.Value(client{}).(*http.Client); ok && c != nil {
			return c
		}
	}

	logger.FromContext(ctx).Debug("No http.Client found in context; using http.DefaultClient")
	return http.DefaultClient
}
