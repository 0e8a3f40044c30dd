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

// Package backend constructs the handles to the Firebase backend:
// the Firestore document database, Firebase Auth and Cloud Storage.
//
// The handles are built once by the bootstrap routine and passed to
// whatever needs them. If anything goes wrong during construction, every
// handle is replaced by the Unavailable sentinel; a Clients value is never
// partially usable.
package backend

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by every call on an unavailable handle
var ErrUnavailable = errors.New("backend unavailable")

// Direction is the sort direction of a query
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Filter is a single field filter of a query
type Filter struct {
	Field string
	Op    string
	Value any
}

// Query describes a collection read with optional filters, order and limit
type Query struct {
	Collection string
	Filters    []Filter
	OrderBy    string
	Direction  Direction
	Limit      int
}

// Store is the document database capability set used by readygate
type Store interface {
	// Query runs the query and returns the number of documents read
	Query(ctx context.Context, q Query) (int, error)
	// Get returns the data of a single document
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	// Set creates or overwrites a single document
	Set(ctx context.Context, collection, id string, data map[string]any) error
	// ProjectID returns the project the store is bound to
	ProjectID() string
	// DatabaseID returns the database the store is bound to
	DatabaseID() string
	Close() error
}

// Authenticator is the auth service capability set
type Authenticator interface {
	// Probe issues a cheap request against the auth service
	Probe(ctx context.Context) error
}

// BlobStore is the blob storage capability set
type BlobStore interface {
	// Bucket returns the name of the bucket
	Bucket() string
	// Probe reads the bucket attributes
	Probe(ctx context.Context) error
	Close() error
}
