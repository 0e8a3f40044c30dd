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

package shell

import (
	"errors"
	"fmt"
)

// ErrRestart is returned by Run when a retry was requested.
// The caller is expected to rebuild every component from scratch.
var ErrRestart = errors.New("restart requested")

// ErrInvalidTransition is returned when a state change is not allowed
type ErrInvalidTransition struct {
	From State
	To   State
}

func (e ErrInvalidTransition) Error() string {
	return fmt.Sprintf("invalid shell transition from %s to %s", e.From, e.To)
}

// ErrCreateOpenapiSchema is returned when the schema of a response cannot be generated
type ErrCreateOpenapiSchema struct {
	name string
	err  error
}

func (e ErrCreateOpenapiSchema) Error() string {
	return fmt.Sprintf("failed to get schema for %s: %v", e.name, e.err)
}

func (e ErrCreateOpenapiSchema) Unwrap() error {
	return e.err
}
