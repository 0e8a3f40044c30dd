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
	"errors"
	"testing"
	"time"

	"github.com/caas-team/readygate/internal/helper"
	"github.com/caas-team/readygate/internal/logger"
)

func TestConfig_Validate(t *testing.T) {
	ctx, cancel := logger.NewContextWithLogger(context.Background())
	defer cancel()

	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr []error
	}{
		{
			name:   "defaults are valid",
			modify: func(c *Config) {},
		},
		{
			name: "setup mode with retries",
			modify: func(c *Config) {
				c.Checker.Mode = ModeSetup
				c.Checker.Retry = helper.RetryConfig{Count: 2, Delay: time.Second}
			},
		},
		{
			name:    "address without port",
			modify:  func(c *Config) { c.Api.ListeningAddress = "localhost" },
			wantErr: []error{ErrInvalidApiAddress},
		},
		{
			name:    "unknown mode",
			modify:  func(c *Config) { c.Checker.Mode = "development" },
			wantErr: []error{ErrInvalidMode},
		},
		{
			name:    "url malformed",
			modify:  func(c *Config) { c.Checker.ConnectivityURL = "this is not a valid url" },
			wantErr: []error{ErrInvalidConnectivityURL},
		},
		{
			name:    "url with unsupported scheme",
			modify:  func(c *Config) { c.Checker.ConnectivityURL = "ftp://firestore.googleapis.com/" },
			wantErr: []error{ErrInvalidConnectivityURL},
		},
		{
			name:   "positive timeout",
			modify: func(c *Config) { c.Checker.Timeout = 10 * time.Millisecond },
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Checker.Timeout = -time.Second },
			wantErr: []error{ErrInvalidTimeout},
		},
		{
			name:    "retry count too high",
			modify:  func(c *Config) { c.Checker.Retry.Count = 6 },
			wantErr: []error{ErrInvalidRetryCount},
		},
		{
			name:    "negative retry count",
			modify:  func(c *Config) { c.Checker.Retry.Count = -1 },
			wantErr: []error{ErrInvalidRetryCount},
		},
		{
			name: "several problems are joined",
			modify: func(c *Config) {
				c.Checker.ReadCollection = ""
				c.Checker.ExpectedDatabase = ""
			},
			wantErr: []error{ErrInvalidCollection, ErrInvalidDatabase},
		},
		{
			name:   "missing firebase parameters are not a structural error",
			modify: func(c *Config) { c.Firebase = FirebaseConfig{DatabaseID: DefaultDatabaseID} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfig()
			tt.modify(c)

			err := c.Validate(ctx)
			if (err != nil) != (len(tt.wantErr) > 0) {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, want := range tt.wantErr {
				if !errors.Is(err, want) {
					t.Errorf("Validate() error = %v, want it to contain %v", err, want)
				}
			}
		})
	}
}

func TestConfig_ConnectivityTarget(t *testing.T) {
	tests := []struct {
		name     string
		emulator string
		url      string
		want     string
	}{
		{name: "default", url: DefaultConnectivityURL, want: DefaultConnectivityURL},
		{name: "emulator replaces default", emulator: "localhost:8081", url: DefaultConnectivityURL, want: "http://localhost:8081/"},
		{name: "explicit url wins over emulator", emulator: "localhost:8081", url: "https://proxy.internal/", want: "https://proxy.internal/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConfig()
			c.Firebase.EmulatorHost = tt.emulator
			c.Checker.ConnectivityURL = tt.url
			if got := c.ConnectivityTarget(); got != tt.want {
				t.Errorf("ConnectivityTarget() = %v, want %v", got, tt.want)
			}
		})
	}
}
