package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"vmctl/pkg/models"
	"vmctl/pkg/ports"
)

const namespace = "vmctl"

// Metrics holds the collectors for the vm use cases and the http api.
type Metrics struct {
	VMCreated          prometheus.Counter
	VMStopped          prometheus.Counter
	ValidationFailures *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg. The vm record gauge
// reads its values from vms on every scrape.
func New(reg prometheus.Registerer, vms ports.VMRegistry) *Metrics {
	m := &Metrics{
		VMCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vm",
			Name:      "created_total",
			Help:      "Number of vms registered.",
		}),
		VMStopped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vm",
			Name:      "stopped_total",
			Help:      "Number of successful stop requests.",
		}),
		ValidationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "vm",
			Name:      "validation_failures_total",
			Help:      "Number of start requests rejected, by failing field.",
		}, []string{"field"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of http requests handled.",
		}, []string{"route", "method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of http requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}

	reg.MustRegister(
		m.VMCreated,
		m.VMStopped,
		m.ValidationFailures,
		m.HTTPRequests,
		m.HTTPDuration,
		newRecordCollector(vms),
	)

	return m
}

// NewRegistry returns a prometheus registry with the go runtime and process
// collectors already registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

type recordCollector struct {
	vms  ports.VMRegistry
	desc *prometheus.Desc
}

func newRecordCollector(vms ports.VMRegistry) *recordCollector {
	return &recordCollector{
		vms: vms,
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "vm", "records"),
			"Number of vm records held by the registry, by state.",
			[]string{"state"}, nil,
		),
	}
}

func (c *recordCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

func (c *recordCollector) Collect(ch chan<- prometheus.Metric) {
	counts := c.vms.Counts()
	for _, state := range []models.VMState{models.RunningState, models.StoppedState} {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, float64(counts[state]), string(state))
	}
}
