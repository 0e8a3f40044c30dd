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
	"errors"
	"fmt"

	"github.com/caas-team/readygate/internal/logger"
	"github.com/caas-team/readygate/pkg/config"
)

// Connector builds the live handles for the given configuration
type Connector func(ctx context.Context, cfg config.FirebaseConfig) (Store, Authenticator, BlobStore, error)

// Clients bundles the backend handles
type Clients struct {
	Store   Store
	Auth    Authenticator
	Storage BlobStore
	// Err is set when the handles are unavailable and holds the reason
	Err error
}

// New constructs the backend handles.
// If the validation failed, connect is never called. If connect fails,
// all three handles are set to Unavailable and Err records the cause.
func New(ctx context.Context, cfg config.FirebaseConfig, v config.Validation, connect Connector) *Clients {
	log := logger.FromContext(ctx)

	if err := v.Err(); err != nil {
		log.ErrorContext(ctx, "Not initializing backend, configuration is invalid", "error", err)
		return unavailableClients(err)
	}

	store, auth, blobs, err := connect(ctx, cfg)
	if err == nil && (store == nil || auth == nil || blobs == nil) {
		err = errors.New("connector returned nil handle")
	}
	if err != nil {
		log.ErrorContext(ctx, "Backend initialization failed", "error", err)
		closeAll(ctx, store, blobs)
		return unavailableClients(err)
	}

	log.InfoContext(ctx, "Backend initialized", "projectId", store.ProjectID(), "database", store.DatabaseID())
	return &Clients{Store: store, Auth: auth, Storage: blobs}
}

// Available returns true if the handles are usable
func (c *Clients) Available() bool {
	return c != nil && c.Err == nil
}

// Close closes all handles
func (c *Clients) Close(ctx context.Context) error {
	if !c.Available() {
		return nil
	}
	return closeAll(ctx, c.Store, c.Storage)
}

func unavailableClients(cause error) *Clients {
	return &Clients{
		Store:   Unavailable,
		Auth:    Unavailable,
		Storage: Unavailable,
		Err:     fmt.Errorf("%w: %w", ErrUnavailable, cause),
	}
}

type closer interface {
	Close() error
}

func closeAll(ctx context.Context, cs ...closer) (err error) {
	for _, c := range cs {
		if c == nil {
			continue
		}
		if cErr := c.Close(); cErr != nil {
			logger.FromContext(ctx).ErrorContext(ctx, "Failed to close backend handle", "error", cErr)
			err = errors.Join(err, cErr)
		}
	}
	return err
}
