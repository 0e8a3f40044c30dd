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

package config

import (
	"context"
	"strings"

	"github.com/caas-team/readygate/internal/logger"
)

// placeholderMarkers are substrings of template values shipped in example env files
var placeholderMarkers = []string{"example", "your-project"}

// Validation is the outcome of checking a FirebaseConfig
type Validation struct {
	// Missing lists the required parameters that are empty
	Missing []string `json:"missing,omitempty" yaml:"missing,omitempty"`
	// Placeholders lists the parameters holding template values
	Placeholders []string `json:"placeholders,omitempty" yaml:"placeholders,omitempty"`
}

// OK returns true if no parameter is missing or a placeholder
func (v Validation) OK() bool {
	return len(v.Missing) == 0 && len(v.Placeholders) == 0
}

// Err returns an ErrInvalidFirebaseConfig or nil if the validation passed
func (v Validation) Err() error {
	if v.OK() {
		return nil
	}
	return ErrInvalidFirebaseConfig{Missing: v.Missing, Placeholders: v.Placeholders}
}

type parameter struct {
	name  string
	value string
}

// parameters returns the required parameters in canonical order
func (f *FirebaseConfig) parameters() []parameter {
	return []parameter{
		{name: "apiKey", value: f.ApiKey},
		{name: "authDomain", value: f.AuthDomain},
		{name: "projectId", value: f.ProjectID},
		{name: "storageBucket", value: f.StorageBucket},
		{name: "messagingSenderId", value: f.MessagingSenderID},
		{name: "appId", value: f.AppID},
	}
}

// Check validates that all required parameters are present and
// not placeholder values. It never fails itself, callers decide
// whether a failed Validation is fatal.
func (f *FirebaseConfig) Check(ctx context.Context) Validation {
	log := logger.FromContext(ctx)

	var v Validation
	for _, p := range f.parameters() {
		switch {
		case strings.TrimSpace(p.value) == "":
			v.Missing = append(v.Missing, p.name)
			log.ErrorContext(ctx, "Missing firebase parameter", "parameter", p.name)
		case IsPlaceholder(p.value):
			v.Placeholders = append(v.Placeholders, p.name)
			log.ErrorContext(ctx, "Firebase parameter contains a placeholder value", "parameter", p.name)
		}
	}

	if v.OK() {
		log.DebugContext(ctx, "Firebase configuration validated", "projectId", f.ProjectID)
	}
	return v
}

// IsPlaceholder returns true if the value looks like template text
func IsPlaceholder(value string) bool {
	lower := strings.ToLower(value)
	for _, m := range placeholderMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
