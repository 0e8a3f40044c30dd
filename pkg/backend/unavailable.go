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

package backend

import "context"

var (
	_ Store         = Unavailable
	_ Authenticator = Unavailable
	_ BlobStore     = Unavailable
)

// Unavailable is the sentinel handle used when the backend could not be initialized.
// Every call returns ErrUnavailable.
var Unavailable = unavailable{}

type unavailable struct{}

func (unavailable) Query(context.Context, Query) (int, error) { return 0, ErrUnavailable }

func (unavailable) Get(context.Context, string, string) (map[string]any, error) {
	return nil, ErrUnavailable
}

func (unavailable) Set(context.Context, string, string, map[string]any) error {
	return ErrUnavailable
}

func (unavailable) Probe(context.Context) error { return ErrUnavailable }
func (unavailable) ProjectID() string           { return "" }
func (unavailable) DatabaseID() string          { return "" }
func (unavailable) Bucket() string              { return "" }
func (unavailable) Close() error                { return nil }
