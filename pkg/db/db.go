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

package db

import (
	"sync"
)

// DB stores the latest value per name
type DB[T any] interface {
	Save(name string, value T)
	Get(name string) (value T, ok bool)
	List() map[string]T
}

var _ DB[int] = (*InMemory[int])(nil)

// InMemory is a DB kept in process memory.
// Its content lives as long as the process; there is no invalidation.
type InMemory[T any] struct {
	data sync.Map
}

// NewInMemory creates a new in-memory database
func NewInMemory[T any]() *InMemory[T] {
	return &InMemory[T]{
		data: sync.Map{},
	}
}

func (i *InMemory[T]) Save(name string, value T) {
	i.data.Store(name, value)
}

func (i *InMemory[T]) Get(name string) (T, bool) {
	tmp, ok := i.data.Load(name)
	if !ok {
		var zero T
		return zero, false
	}
	// only values of type T are stored, the assertion cannot fail
	return tmp.(T), true
}

// List returns a copy of the map
func (i *InMemory[T]) List() map[string]T {
	values := make(map[string]T)
	i.data.Range(func(key, value any) bool {
		values[key.(string)] = value.(T)
		return true
	})

	return values
}
