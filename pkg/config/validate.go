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
	"net"
	"net/url"

	"github.com/caas-team/readygate/internal/logger"
)

const maxRetryCount = 5

// Validate validates the structural parts of the config.
// The Firebase parameters are checked separately by FirebaseConfig.Check,
// so that an incomplete Firebase configuration still reaches the shell.
func (c *Config) Validate(ctx context.Context) (err error) {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx).WithGroup("configValidation")

	if _, _, sErr := net.SplitHostPort(c.Api.ListeningAddress); sErr != nil {
		log.ErrorContext(ctx, "The api address is not a valid host:port", KeyApiAddress, c.Api.ListeningAddress, "error", sErr)
		err = errors.Join(err, ErrInvalidApiAddress)
	}

	switch c.Checker.Mode {
	case ModeStartup, ModeSetup:
	default:
		log.ErrorContext(ctx, "The checker mode is unknown", KeyCheckerMode, c.Checker.Mode)
		err = errors.Join(err, ErrInvalidMode)
	}

	if u, pErr := url.ParseRequestURI(c.Checker.ConnectivityURL); pErr != nil || (u.Scheme != "http" && u.Scheme != "https") {
		log.ErrorContext(ctx, "The connectivity url is not a valid http(s) url", KeyCheckerConnectivityURL, c.Checker.ConnectivityURL)
		err = errors.Join(err, ErrInvalidConnectivityURL)
	}

	if c.Checker.Timeout < 0 {
		log.ErrorContext(ctx, "The probe timeout must not be negative", KeyCheckerTimeout, c.Checker.Timeout.String())
		err = errors.Join(err, ErrInvalidTimeout)
	}

	if c.Checker.Retry.Count < 0 || c.Checker.Retry.Count > maxRetryCount {
		log.ErrorContext(ctx, "The amount of connectivity retries should be between 0 and 5", KeyCheckerRetryCount, c.Checker.Retry.Count)
		err = errors.Join(err, ErrInvalidRetryCount)
	}

	if c.Checker.ReadCollection == "" || c.Checker.SetupCollection == "" {
		log.ErrorContext(ctx, "Probe collections must not be empty",
			KeyCheckerReadCollection, c.Checker.ReadCollection,
			KeyCheckerSetupCollection, c.Checker.SetupCollection)
		err = errors.Join(err, ErrInvalidCollection)
	}

	if c.Checker.ExpectedDatabase == "" || c.Firebase.DatabaseID == "" {
		log.ErrorContext(ctx, "The database ids must not be empty",
			KeyFirebaseDatabaseID, c.Firebase.DatabaseID,
			KeyCheckerExpectedDatabase, c.Checker.ExpectedDatabase)
		err = errors.Join(err, ErrInvalidDatabase)
	}

	return err
}

// ConnectivityTarget returns the url the connectivity probe requests.
// With an emulator configured and the default url untouched, the emulator is probed.
func (c *Config) ConnectivityTarget() string {
	if c.Firebase.UsesEmulator() && c.Checker.ConnectivityURL == DefaultConnectivityURL {
		return (&url.URL{Scheme: "http", Host: c.Firebase.EmulatorHost, Path: "/"}).String()
	}
	return c.Checker.ConnectivityURL
}
