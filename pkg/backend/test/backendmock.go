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

package backendmock

import (
	"context"
	"sync"

	"github.com/caas-team/readygate/pkg/backend"
)

var (
	_ backend.Store         = (*MockStore)(nil)
	_ backend.Authenticator = (*MockAuth)(nil)
	_ backend.BlobStore     = (*MockBlobStore)(nil)
)

// MockStore is a mock implementation of the backend.Store interface.
// Unset funcs behave like an empty, healthy database.
type MockStore struct {
	Project  string
	Database string

	QueryFunc func(ctx context.Context, q backend.Query) (int, error)
	GetFunc   func(ctx context.Context, collection, id string) (map[string]any, error)
	SetFunc   func(ctx context.Context, collection, id string, data map[string]any) error

	mu      sync.Mutex
	queries []backend.Query
	gets    []string
	sets    []string
	docs    map[string]map[string]any
	closed  bool
}

func (m *MockStore) Query(ctx context.Context, q backend.Query) (int, error) {
	m.mu.Lock()
	m.queries = append(m.queries, q)
	m.mu.Unlock()
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, q)
	}
	return 0, nil
}

func (m *MockStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	m.mu.Lock()
	m.gets = append(m.gets, collection+"/"+id)
	data := m.docs[collection+"/"+id]
	m.mu.Unlock()
	if m.GetFunc != nil {
		return m.GetFunc(ctx, collection, id)
	}
	return data, nil
}

func (m *MockStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	m.mu.Lock()
	m.sets = append(m.sets, collection+"/"+id)
	m.mu.Unlock()
	if m.SetFunc != nil {
		return m.SetFunc(ctx, collection, id, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs == nil {
		m.docs = map[string]map[string]any{}
	}
	m.docs[collection+"/"+id] = data
	return nil
}

func (m *MockStore) ProjectID() string  { return m.Project }
func (m *MockStore) DatabaseID() string { return m.Database }

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Queries returns the queries issued so far
func (m *MockStore) Queries() []backend.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]backend.Query(nil), m.queries...)
}

// Calls returns the number of reads (queries and gets) and writes issued so far
func (m *MockStore) Calls() (reads, writes int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queries) + len(m.gets), len(m.sets)
}

// Closed reports whether Close was called
func (m *MockStore) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// MockAuth is a mock implementation of the backend.Authenticator interface
type MockAuth struct {
	Err   error
	Calls int
}

func (m *MockAuth) Probe(context.Context) error {
	m.Calls++
	return m.Err
}

// MockBlobStore is a mock implementation of the backend.BlobStore interface
type MockBlobStore struct {
	Name   string
	Err    error
	Calls  int
	Closed bool
}

func (m *MockBlobStore) Bucket() string { return m.Name }

func (m *MockBlobStore) Probe(context.Context) error {
	m.Calls++
	return m.Err
}

func (m *MockBlobStore) Close() error {
	m.Closed = true
	return nil
}
