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
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// State of the shell
type State string

const (
	StateChecking State = "checking"
	StateReady    State = "ready"
	StateFailed   State = "failed"
)

var states = []State{StateChecking, StateReady, StateFailed}

// Terminal returns true if no transition leaves the state
func (s State) Terminal() bool {
	return s == StateReady || s == StateFailed
}

// machine holds the shell state.
// It starts in Checking and moves exactly once, to Ready or Failed.
type machine struct {
	mu    sync.RWMutex
	state State
	since time.Time
	gauge *prometheus.GaugeVec
}

func newMachine(now time.Time) *machine {
	m := &machine{
		state: StateChecking,
		since: now,
		gauge: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "readygate_shell_state",
				Help: "State of the shell, 1 for the current state",
			},
			[]string{
				"state",
			},
		),
	}
	m.export()
	return m
}

// transition moves to the given state
func (m *machine) transition(to State, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateChecking || !to.Terminal() {
		return ErrInvalidTransition{From: m.state, To: to}
	}
	m.state = to
	m.since = now
	m.export()
	return nil
}

// current returns the state and when it was entered
func (m *machine) current() (State, time.Time) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state, m.since
}

func (m *machine) export() {
	for _, s := range states {
		v := 0.0
		if s == m.state {
			v = 1
		}
		m.gauge.WithLabelValues(string(s)).Set(v)
	}
}
