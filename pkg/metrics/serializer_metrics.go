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
	serializerMetricSubsystem = "serializer"

	PathFixedLabel    = "fixed"
	PathStagedLabel   = "staged"
	PathFallbackLabel = "fallback"
)

var (
	SerializerMetricsRegisterOnce sync.Once

	SerializerWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: blitzNamespace,
		Subsystem: serializerMetricSubsystem,
		Name:      "writes_total",
		Help:      "按路径统计的写入次数",
	}, []string{pathLabelName})

	SerializerWriteBytes = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: blitzNamespace,
		Subsystem: serializerMetricSubsystem,
		Name:      "write_bytes",
		Help:      "按路径统计的单次写入字节数",
		Buckets:   sizeBuckets,
	}, []string{pathLabelName})

	SerializerReads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: blitzNamespace,
		Subsystem: serializerMetricSubsystem,
		Name:      "reads_total",
		Help:      "按帧格式标记统计的读取次数",
	}, []string{markerLabelName})

	SerializerProbeMismatch = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: blitzNamespace,
		Subsystem: serializerMetricSubsystem,
		Name:      "probe_mismatch_total",
		Help:      "校验模式下预估大小与重新计算结果不一致的次数",
	})
)

// RegisterSerializerMetrics 将序列化相关的指标注册到 Prometheus Registry 中。
func RegisterSerializerMetrics(registry prometheus.Registerer) {
	SerializerMetricsRegisterOnce.Do(func() {
		registry.MustRegister(SerializerWrites)
		registry.MustRegister(SerializerWriteBytes)
		registry.MustRegister(SerializerReads)
		registry.MustRegister(SerializerProbeMismatch)
	})
}
