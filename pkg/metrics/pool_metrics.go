// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	poolMetricSubsystem = "staged_pool"
)

var (
	PoolMetricsRegisterOnce sync.Once

	StagedAcquired = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: blitzNamespace,
		Subsystem: poolMetricSubsystem,
		Name:      "acquired_total",
		Help:      "从池中借出的暂存缓冲区数量",
	}, []string{poolNameLabelName})

	StagedReleased = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: blitzNamespace,
		Subsystem: poolMetricSubsystem,
		Name:      "released_total",
		Help:      "归还到池中的暂存缓冲区数量",
	}, []string{poolNameLabelName})

	StagedOutstanding = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: blitzNamespace,
		Subsystem: poolMetricSubsystem,
		Name:      "outstanding",
		Help:      "当前已借出且尚未归还的暂存缓冲区数量",
	}, []string{poolNameLabelName})
)

// RegisterPoolMetrics 将暂存缓冲池相关的指标注册到 Prometheus Registry 中。
func RegisterPoolMetrics(registry prometheus.Registerer) {
	PoolMetricsRegisterOnce.Do(func() {
		registry.MustRegister(StagedAcquired)
		registry.MustRegister(StagedReleased)
		registry.MustRegister(StagedOutstanding)
	})
}
