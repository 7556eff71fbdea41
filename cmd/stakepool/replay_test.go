// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayOdometer(t *testing.T) {
	s, err := loadScenario("testdata/odometer.yaml")
	require.NoError(t, err)

	var (
		out   bytes.Buffer
		steps int
	)
	require.NoError(t, runScenario(s, &out, func() { steps++ }))
	assert.Equal(t, len(s.Steps), steps)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, len(s.Steps))
	assert.Contains(t, lines[9], "reverted as expected")
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "ok"))
}

func TestReplayFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  string
	}{
		{
			"unexpected failure",
			`steps: [{op: withdraw, from: "0xd3ae78222beadb038203be21ed5ce7c9b1bff602", amount: "1"}]`,
			"Insufficient balance",
		},
		{
			"unexpected success",
			`steps: [{op: reward, from: "0xd3ae78222beadb038203be21ed5ce7c9b1bff602", expect: "nope"}]`,
			"expected error",
		},
		{
			"wrong error",
			`steps: [{op: stake, from: "0xd3ae78222beadb038203be21ed5ce7c9b1bff602", amount: "0", expect: "owner"}]`,
			"got",
		},
		{
			"clock going back",
			`{start: 10, steps: [{op: reward, at: 5, from: "0xd3ae78222beadb038203be21ed5ce7c9b1bff602"}]}`,
			"cannot go back",
		},
		{
			"unknown op",
			`steps: [{op: dance}]`,
			"unknown op",
		},
		{
			"check mismatch",
			`steps: [{op: check, from: "0xd3ae78222beadb038203be21ed5ce7c9b1bff602", staked: "1"}]`,
			"staked: want 1, got 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := parseScenario([]byte(tt.yaml))
			require.NoError(t, err)
			err = runScenario(s, &bytes.Buffer{}, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.err)
		})
	}
}

func TestParseScenarioRejectsUnknownFields(t *testing.T) {
	_, err := parseScenario([]byte(`steps: [{op: stake, amout: "1"}]`))
	assert.Error(t, err)
}
