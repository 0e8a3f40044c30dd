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
	"reflect"
	"sync"
	"testing"
)

type verdict struct {
	Ready  bool
	Reason string
}

func TestInMemory_Save(t *testing.T) {
	tests := []struct {
		name     string
		existing map[string]verdict
		key      string
		value    verdict
	}{
		{name: "Saves into empty db", existing: map[string]verdict{}, key: "readiness", value: verdict{Ready: true}},
		{name: "Overwrites existing value", existing: map[string]verdict{"readiness": {Reason: "unreachable"}}, key: "readiness", value: verdict{Ready: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := NewInMemory[verdict]()
			for k, v := range tt.existing {
				i.data.Store(k, v)
			}

			i.Save(tt.key, tt.value)
			val, ok := i.data.Load(tt.key)
			if !ok {
				t.Fatalf("Expected to find key %s in map", tt.key)
			}

			if !reflect.DeepEqual(val, tt.value) {
				t.Fatalf("Expected val to be %v but got: %v", tt.value, val)
			}
		})
	}
}

func TestNewInMemory(t *testing.T) {
	want := &InMemory[verdict]{data: sync.Map{}}
	if got := NewInMemory[verdict](); !reflect.DeepEqual(got, want) {
		t.Errorf("NewInMemory() = %v, want %v", got, want)
	}
}

func TestInMemory_Get(t *testing.T) {
	data := map[string]verdict{
		"readiness": {Ready: true},
		"previous":  {Reason: "permission denied"},
	}
	tests := []struct {
		name   string
		key    string
		want   verdict
		wantOk bool
	}{
		{name: "Can get value", key: "previous", want: verdict{Reason: "permission denied"}, wantOk: true},
		{name: "Not found", key: "NOTFOUND", want: verdict{}, wantOk: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := NewInMemory[verdict]()
			for k, v := range data {
				i.data.Store(k, v)
			}
			if got, ok := i.Get(tt.key); !reflect.DeepEqual(got, tt.want) || ok != tt.wantOk {
				t.Errorf("Get() = %v, %v, want %v, %v", got, ok, tt.want, tt.wantOk)
			}
		})
	}
}

func TestInMemory_List(t *testing.T) {
	want := map[string]verdict{
		"readiness": {Ready: true},
		"previous":  {Reason: "permission denied"},
	}

	i := NewInMemory[verdict]()
	for k, v := range want {
		i.Save(k, v)
	}

	got := i.List()
	if !reflect.DeepEqual(want, got) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	got["readiness"] = verdict{}
	if v, _ := i.Get("readiness"); !v.Ready {
		t.Errorf("List() did not return a copy")
	}
}
