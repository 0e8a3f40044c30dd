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

import (
	"context"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResourcePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		project  string
		database string
	}{
		{
			name:     "default database",
			path:     "projects/listings-prod/databases/(default)/documents/_readygate",
			project:  "listings-prod",
			database: "(default)",
		},
		{
			name:     "named database",
			path:     "projects/listings-prod/databases/eu-listings/documents/listings/abc",
			project:  "listings-prod",
			database: "eu-listings",
		},
		{
			name: "not a resource path",
			path: "listings/abc",
		},
		{
			name: "empty",
			path: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project, database := parseResourcePath(tt.path)
			assert.Equal(t, tt.project, project)
			assert.Equal(t, tt.database, database)
		})
	}
}

func TestBoundTo(t *testing.T) {
	t.Setenv(emulatorEnv, "localhost:8081")
	fs, err := firestore.NewClientWithDatabase(context.Background(), "listings-prod", "eu-listings")
	require.NoError(t, err)
	t.Cleanup(func() { _ = fs.Close() })

	project, database := boundTo(fs)
	assert.Equal(t, "listings-prod", project)
	assert.Equal(t, "eu-listings", database)
}
