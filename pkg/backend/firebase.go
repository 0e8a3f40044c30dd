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
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/caas-team/readygate/internal/logger"
	"github.com/caas-team/readygate/pkg/config"
)

var (
	_ Connector     = Firebase
	_ Store         = (*firestoreStore)(nil)
	_ Authenticator = (*authClient)(nil)
	_ BlobStore     = (*bucket)(nil)
)

// emulatorEnv is read by the firestore client to connect to an emulator
const emulatorEnv = "FIRESTORE_EMULATOR_HOST"

// probeUID is looked up by the auth probe, it is not expected to exist
const probeUID = "readygate-probe"

// probeCollection is only used to resolve resource paths, it is never read
const probeCollection = "_readygate"

// Firebase is the Connector for a real Firebase project
func Firebase(ctx context.Context, cfg config.FirebaseConfig) (Store, Authenticator, BlobStore, error) {
	log := logger.FromContext(ctx)

	var opts []option.ClientOption
	// Without a credentials file, application default credentials are used.
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.UsesEmulator() {
		log.InfoContext(ctx, "Connecting to Firestore emulator", "host", cfg.EmulatorHost)
		if err := os.Setenv(emulatorEnv, cfg.EmulatorHost); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to set %s: %w", emulatorEnv, err)
		}
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create firebase app: %w", err)
	}

	ac, err := app.Auth(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create auth client: %w", err)
	}

	fs, err := firestore.NewClientWithDatabase(ctx, cfg.ProjectID, cfg.DatabaseID, opts...)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	project, database := boundTo(fs)
	store := &firestoreStore{client: fs, projectID: project, databaseID: database}

	st, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return store, nil, nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return store, &authClient{client: ac}, &bucket{client: st, name: cfg.StorageBucket}, nil
}

type firestoreStore struct {
	client     *firestore.Client
	projectID  string
	databaseID string
}

func (s *firestoreStore) Query(ctx context.Context, q Query) (int, error) {
	fq := s.client.Collection(q.Collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, f.Op, f.Value)
	}
	if q.OrderBy != "" {
		fq = fq.OrderBy(q.OrderBy, direction(q.Direction))
	}
	if q.Limit > 0 {
		fq = fq.Limit(q.Limit)
	}

	it := fq.Documents(ctx)
	defer it.Stop()

	n := 0
	for {
		_, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}

func (s *firestoreStore) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Data(), nil
}

func (s *firestoreStore) Set(ctx context.Context, collection, id string, data map[string]any) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, data)
	return err
}

func (s *firestoreStore) ProjectID() string  { return s.projectID }
func (s *firestoreStore) DatabaseID() string { return s.databaseID }
func (s *firestoreStore) Close() error       { return s.client.Close() }

// boundTo returns the project and database the client resolved for its resources
func boundTo(fs *firestore.Client) (project, database string) {
	return parseResourcePath(fs.Collection(probeCollection).Path)
}

// parseResourcePath extracts project and database from a
// projects/{project}/databases/{database}/documents/... path
func parseResourcePath(path string) (project, database string) {
	parts := strings.Split(path, "/")
	if len(parts) < 4 || parts[0] != "projects" || parts[2] != "databases" {
		return "", ""
	}
	return parts[1], parts[3]
}

func direction(d Direction) firestore.Direction {
	if d == Desc {
		return firestore.Desc
	}
	return firestore.Asc
}

type authClient struct {
	client *auth.Client
}

// Probe looks up a user that does not exist. A user-not-found answer
// proves the auth service is reachable and accepts the credentials.
func (a *authClient) Probe(ctx context.Context) error {
	_, err := a.client.GetUser(ctx, probeUID)
	if err == nil || auth.IsUserNotFound(err) {
		return nil
	}
	return err
}

type bucket struct {
	client *storage.Client
	name   string
}

func (b *bucket) Bucket() string { return b.name }

func (b *bucket) Probe(ctx context.Context) error {
	_, err := b.client.Bucket(b.name).Attrs(ctx)
	return err
}

func (b *bucket) Close() error { return b.client.Close() }
