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
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMachine_transition(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		from    State
		to      State
		wantErr bool
	}{
		{name: "checking to ready", from: StateChecking, to: StateReady},
		{name: "checking to failed", from: StateChecking, to: StateFailed},
		{name: "checking to checking", from: StateChecking, to: StateChecking, wantErr: true},
		{name: "ready to failed", from: StateReady, to: StateFailed, wantErr: true},
		{name: "failed to ready", from: StateFailed, to: StateReady, wantErr: true},
		{name: "failed to checking", from: StateFailed, to: StateChecking, wantErr: true},
		{name: "ready to ready", from: StateReady, to: StateReady, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(now)
			if tt.from != StateChecking {
				require.NoError(t, m.transition(tt.from, now))
			}

			err := m.transition(tt.to, now.Add(time.Second))
			if tt.wantErr {
				assert.Equal(t, ErrInvalidTransition{From: tt.from, To: tt.to}, err)
				st, since := m.current()
				assert.Equal(t, tt.from, st)
				assert.Equal(t, now, since)
				return
			}
			require.NoError(t, err)
			st, since := m.current()
			assert.Equal(t, tt.to, st)
			assert.Equal(t, now.Add(time.Second), since)
		})
	}
}

func TestMachine_gauge(t *testing.T) {
	m := newMachine(time.Now())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gauge.WithLabelValues(string(StateChecking))))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.gauge.WithLabelValues(string(StateFailed))))

	require.NoError(t, m.transition(StateFailed, time.Now()))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.gauge.WithLabelValues(string(StateChecking))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gauge.WithLabelValues(string(StateFailed))))
	assert.Equal(t, 3, testutil.CollectAndCount(m.gauge))
}

func TestState_Terminal(t *testing.T) {
	assert.False(t, StateChecking.Terminal())
	assert.True(t, StateReady.Terminal())
	assert.True(t, StateFailed.Terminal())
}
