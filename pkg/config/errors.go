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
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidApiAddress is returned when the api address is invalid
	ErrInvalidApiAddress = errors.New("invalid api address")
	// ErrInvalidMode is returned when the checker mode is unknown
	ErrInvalidMode = errors.New("invalid checker mode")
	// ErrInvalidConnectivityURL is returned when the connectivity url is invalid
	ErrInvalidConnectivityURL = errors.New("invalid connectivity url")
	// ErrInvalidTimeout is returned when the probe timeout is invalid
	ErrInvalidTimeout = errors.New("invalid probe timeout")
	// ErrInvalidRetryCount is returned when the connectivity retry count is invalid
	ErrInvalidRetryCount = errors.New("invalid connectivity retry count")
	// ErrInvalidCollection is returned when a probe collection name is invalid
	ErrInvalidCollection = errors.New("invalid collection")
	// ErrInvalidDatabase is returned when the expected database id is empty
	ErrInvalidDatabase = errors.New("invalid expected database")
)

// ErrInvalidFirebaseConfig is returned when required Firebase
// parameters are missing or still hold placeholder values
type ErrInvalidFirebaseConfig struct {
	Missing      []string
	Placeholders []string
}

func (e ErrInvalidFirebaseConfig) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing: [%s]", strings.Join(e.Missing, ", ")))
	}
	if len(e.Placeholders) > 0 {
		parts = append(parts, fmt.Sprintf("placeholder: [%s]", strings.Join(e.Placeholders, ", ")))
	}
	return fmt.Sprintf("invalid firebase configuration: %s", strings.Join(parts, "; "))
}
