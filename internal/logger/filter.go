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

package logger

import (
	"context"
	"log/slog"
	"strings"
)

var _ slog.Handler = (*FilterHandler)(nil)

// FilterHandler wraps another slog.Handler and drops every record whose
// message or string attribute values contain one of the suppressed substrings.
//
// It is installed at the logging boundary only, the wrapped handler and the
// default slog logger stay untouched.
type FilterHandler struct {
	next     slog.Handler
	suppress []string
	// muted is set once an attribute added via WithAttrs matched
	muted bool
}

// NewFilterHandler returns a FilterHandler forwarding to next.
// Empty substrings are ignored. If no substring remains, next is returned unchanged.
func NewFilterHandler(next slog.Handler, suppress ...string) slog.Handler {
	var s []string
	for _, sub := range suppress {
		if sub != "" {
			s = append(s, sub)
		}
	}
	if len(s) == 0 {
		return next
	}
	return &FilterHandler{next: next, suppress: s}
}

// Enabled reports whether the wrapped handler handles records at the given level
func (f *FilterHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return f.next.Enabled(ctx, level)
}

// Handle forwards the record unless it matches a suppressed substring
func (f *FilterHandler) Handle(ctx context.Context, r slog.Record) error {
	if f.muted || f.matches(r.Message) {
		return nil
	}

	suppressed := false
	r.Attrs(func(a slog.Attr) bool {
		if f.matchesAttr(a) {
			suppressed = true
			return false
		}
		return true
	})
	if suppressed {
		return nil
	}
	return f.next.Handle(ctx, r)
}

// WithAttrs returns a new FilterHandler whose wrapped handler has the given attributes
func (f *FilterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	muted := f.muted
	for _, a := range attrs {
		if !muted && f.matchesAttr(a) {
			muted = true
		}
	}
	return &FilterHandler{next: f.next.WithAttrs(attrs), suppress: f.suppress, muted: muted}
}

// WithGroup returns a new FilterHandler whose wrapped handler uses the given group
func (f *FilterHandler) WithGroup(name string) slog.Handler {
	return &FilterHandler{next: f.next.WithGroup(name), suppress: f.suppress, muted: f.muted}
}

func (f *FilterHandler) matchesAttr(a slog.Attr) bool {
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return f.matches(v.String())
	case slog.KindGroup:
		for _, ga := range v.Group() {
			if f.matchesAttr(ga) {
				return true
			}
		}
	case slog.KindAny:
		if err, ok := v.Any().(error); ok && err != nil {
			return f.matches(err.Error())
		}
	}
	return false
}

func (f *FilterHandler) matches(s string) bool {
	for _, sub := range f.suppress {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
