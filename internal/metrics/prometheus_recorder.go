package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder on a Prometheus registry.
type PrometheusRecorder struct {
	starts         prom.Counter
	stops          prom.Counter
	conflicts      prom.Counter
	ticks          prom.Counter
	running        prom.Gauge
	entryDurations prom.Histogram
}

// NewPrometheusRecorder constructs and registers the timer metrics. A nil
// registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		starts: prom.NewCounter(prom.CounterOpts{
			Namespace: "solia",
			Name:      "timer_starts_total",
			Help:      "Successful timer starts",
		}),
		stops: prom.NewCounter(prom.CounterOpts{
			Namespace: "solia",
			Name:      "timer_stops_total",
			Help:      "Successful timer stops",
		}),
		conflicts: prom.NewCounter(prom.CounterOpts{
			Namespace: "solia",
			Name:      "timer_start_conflicts_total",
			Help:      "Start attempts rejected because an entry was already open",
		}),
		ticks: prom.NewCounter(prom.CounterOpts{
			Namespace: "solia",
			Name:      "timer_ticks_total",
			Help:      "Elapsed ticks emitted while running",
		}),
		running: prom.NewGauge(prom.GaugeOpts{
			Namespace: "solia",
			Name:      "timer_running",
			Help:      "1 while an entry is open, 0 while idle",
		}),
		entryDurations: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "solia",
			Name:      "entry_duration_seconds",
			Help:      "Durations of closed time entries",
			Buckets:   []float64{60, 300, 900, 1800, 3600, 7200, 14400, 28800},
		}),
	}
	reg.MustRegister(pr.starts, pr.stops, pr.conflicts, pr.ticks, pr.running, pr.entryDurations)
	return pr
}

func (pr *PrometheusRecorder) IncTimerStart()    { pr.starts.Inc() }
func (pr *PrometheusRecorder) IncTimerStop()     { pr.stops.Inc() }
func (pr *PrometheusRecorder) IncStartConflict() { pr.conflicts.Inc() }
func (pr *PrometheusRecorder) IncTick()          { pr.ticks.Inc() }

func (pr *PrometheusRecorder) SetRunning(running bool) {
	if running {
		pr.running.Set(1)
	} else {
		pr.running.Set(0)
	}
}

func (pr *PrometheusRecorder) ObserveEntryDuration(d time.Duration) {
	pr.entryDurations.Observe(d.Seconds())
}

// HTTPHandler serves the registry for the daemon's localhost listener.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
