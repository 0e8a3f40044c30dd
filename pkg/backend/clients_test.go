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

package backend_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caas-team/readygate/pkg/backend"
	backendmock "github.com/caas-team/readygate/pkg/backend/test"
	"github.com/caas-team/readygate/pkg/config"
)

func TestNew(t *testing.T) {
	errConnect := errors.New("could not find default credentials")

	tests := []struct {
		name          string
		validation    config.Validation
		connect       func(store *backendmock.MockStore, blobs *backendmock.MockBlobStore) backend.Connector
		wantAvailable bool
		wantConnect   bool
		wantClosed    bool
		wantErr       error
	}{
		{
			name:       "valid config",
			validation: config.Validation{},
			connect: func(store *backendmock.MockStore, blobs *backendmock.MockBlobStore) backend.Connector {
				return func(context.Context, config.FirebaseConfig) (backend.Store, backend.Authenticator, backend.BlobStore, error) {
					return store, &backendmock.MockAuth{}, blobs, nil
				}
			},
			wantAvailable: true,
			wantConnect:   true,
		},
		{
			name:          "invalid config never connects",
			validation:    config.Validation{Missing: []string{"projectId"}},
			connect:       nil,
			wantAvailable: false,
			wantConnect:   false,
			wantErr:       config.ErrInvalidFirebaseConfig{},
		},
		{
			name:       "connector error",
			validation: config.Validation{},
			connect: func(*backendmock.MockStore, *backendmock.MockBlobStore) backend.Connector {
				return func(context.Context, config.FirebaseConfig) (backend.Store, backend.Authenticator, backend.BlobStore, error) {
					return nil, nil, nil, errConnect
				}
			},
			wantAvailable: false,
			wantConnect:   true,
			wantErr:       errConnect,
		},
		{
			name:       "partial construction is closed and discarded",
			validation: config.Validation{},
			connect: func(store *backendmock.MockStore, _ *backendmock.MockBlobStore) backend.Connector {
				return func(context.Context, config.FirebaseConfig) (backend.Store, backend.Authenticator, backend.BlobStore, error) {
					return store, nil, nil, errConnect
				}
			},
			wantAvailable: false,
			wantConnect:   true,
			wantClosed:    true,
			wantErr:       errConnect,
		},
		{
			name:       "nil handle without error",
			validation: config.Validation{},
			connect: func(store *backendmock.MockStore, _ *backendmock.MockBlobStore) backend.Connector {
				return func(context.Context, config.FirebaseConfig) (backend.Store, backend.Authenticator, backend.BlobStore, error) {
					return store, &backendmock.MockAuth{}, nil, nil
				}
			},
			wantAvailable: false,
			wantConnect:   true,
			wantClosed:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &backendmock.MockStore{Project: "hoodly-realtor", Database: "(default)"}
			blobs := &backendmock.MockBlobStore{Name: "hoodly-realtor.appspot.com"}

			connected := false
			connect := func(ctx context.Context, cfg config.FirebaseConfig) (backend.Store, backend.Authenticator, backend.BlobStore, error) {
				connected = true
				return tt.connect(store, blobs)(ctx, cfg)
			}

			c := backend.New(context.Background(), config.FirebaseConfig{ProjectID: "hoodly-realtor"}, tt.validation, connect)
			require.NotNil(t, c)

			assert.Equal(t, tt.wantAvailable, c.Available())
			assert.Equal(t, tt.wantConnect, connected)
			assert.Equal(t, tt.wantClosed, store.Closed())

			if tt.wantAvailable {
				assert.NoError(t, c.Err)
				assert.Same(t, store, c.Store)
				return
			}

			assert.ErrorIs(t, c.Err, backend.ErrUnavailable)
			if tt.wantErr != nil {
				var fErr config.ErrInvalidFirebaseConfig
				if errors.As(tt.wantErr, &fErr) {
					assert.ErrorAs(t, c.Err, &fErr)
				} else {
					assert.ErrorIs(t, c.Err, tt.wantErr)
				}
			}
			assert.Equal(t, backend.Unavailable, c.Store)
			assert.Equal(t, backend.Unavailable, c.Auth)
			assert.Equal(t, backend.Unavailable, c.Storage)
		})
	}
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()

	_, err := backend.Unavailable.Query(ctx, backend.Query{Collection: "listings", Limit: 1})
	assert.ErrorIs(t, err, backend.ErrUnavailable)
	_, err = backend.Unavailable.Get(ctx, "_setup", "init")
	assert.ErrorIs(t, err, backend.ErrUnavailable)
	assert.ErrorIs(t, backend.Unavailable.Set(ctx, "_setup", "init", nil), backend.ErrUnavailable)
	assert.ErrorIs(t, backend.Unavailable.Probe(ctx), backend.ErrUnavailable)
	assert.NoError(t, backend.Unavailable.Close())
}

func TestClients_Close(t *testing.T) {
	store := &backendmock.MockStore{}
	blobs := &backendmock.MockBlobStore{}
	c := &backend.Clients{Store: store, Auth: &backendmock.MockAuth{}, Storage: blobs}

	require.NoError(t, c.Close(context.Background()))
	assert.True(t, store.Closed())
	assert.True(t, blobs.Closed)

	var nilClients *backend.Clients
	assert.False(t, nilClients.Available())
	assert.NoError(t, nilClients.Close(context.Background()))
}
