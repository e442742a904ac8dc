// Package metrics 提供Prometheus监控指标
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paiban/shiftplan/pkg/scheduler/constraint"
	"github.com/paiban/shiftplan/pkg/scheduler/solver"
	"github.com/paiban/shiftplan/pkg/tools"
)

const namespace = "shiftplan"

var _ tools.Recorder = (*Recorder)(nil)

// Recorder 记录排班引擎与 HTTP 指标
type Recorder struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	generations     *prometheus.CounterVec
	genDuration     prometheus.Histogram
	iterations      prometheus.Counter
	repairs         prometheus.Counter
	assignments     prometheus.Gauge
	validations     *prometheus.CounterVec
	violations      *prometheus.CounterVec
	toolCalls       *prometheus.CounterVec
}

// New 创建并注册指标，reg 为 nil 时使用 prometheus.DefaultRegisterer
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP请求总数",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP请求延迟",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_generation_total",
			Help:      "排班生成次数",
		}, []string{"ok"}),
		genDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "schedule_generation_duration_seconds",
			Help:      "排班生成耗时",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		iterations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "optimizer_iterations_total",
			Help:      "局部搜索迭代次数",
		}),
		repairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repair_moves_total",
			Help:      "修复阶段成功的调整次数",
		}),
		assignments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "schedule_assignments",
			Help:      "最近一次生成的分配数",
		}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_validation_total",
			Help:      "排班校验次数",
		}, []string{"ok"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "constraint_violations_total",
			Help:      "按违规码统计的违规数",
		}, []string{"code"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "工具调用次数",
		}, []string{"tool", "result"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(
		r.requests, r.requestDuration,
		r.generations, r.genDuration, r.iterations, r.repairs, r.assignments,
		r.validations, r.violations, r.toolCalls,
	)
	return r
}

// ObserveGenerate 记录一次求解
func (r *Recorder) ObserveGenerate(res *solver.Result) {
	r.generations.WithLabelValues(strconv.FormatBool(res.OK)).Inc()
	r.genDuration.Observe(res.Seconds)
	r.iterations.Add(float64(res.Iterations))
	r.repairs.Add(float64(res.Statistics.Repairs))
	r.assignments.Set(float64(res.Statistics.Assignments))
}

// ObserveValidate 记录一次校验及其违规
func (r *Recorder) ObserveValidate(rep *constraint.Report) {
	r.validations.WithLabelValues(strconv.FormatBool(rep.OK)).Inc()
	for _, v := range rep.Violations {
		r.violations.WithLabelValues(string(v.Code)).Inc()
	}
}

// ObserveToolCall 记录工具调用结果
func (r *Recorder) ObserveToolCall(name string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.toolCalls.WithLabelValues(name, result).Inc()
}

// ObserveRequest 记录 HTTP 请求
func (r *Recorder) ObserveRequest(method, route string, status int, d time.Duration) {
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Handler 返回指标导出处理器，g 为 nil 时使用默认注册表
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
