// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	m := defaultNoopMetrics()

	assert.Nil(t, m.Handler())

	labels := map[string]string{"unknown": "label"}
	assert.NotPanics(t, func() {
		m.CounterVec("ops", []string{"op"}).AddWithLabel(1, labels)
		m.Gauge("staked").Set(10)
		m.Gauge("staked").Add(-1)
		m.GaugeVec("cache", []string{"result"}).SetWithLabel(3, labels)
		m.GaugeVec("cache", []string{"result"}).AddWithLabel(1, labels)
		m.Histogram("latency", nil).Observe(5)
		m.HistogramVec("latency_by_op", []string{"op"}, Bucket10s).ObserveWithLabels(5, labels)
	})
}
