package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coursereg"

var (
	Registrations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "registrations_total", Help: "Successful course registrations",
	})
	Cancellations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "cancellations_total", Help: "Cancelled registrations",
	})
	AttendanceRows = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "attendance_rows_total", Help: "Attendance rows written",
	})
	FinalizedResults = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Name: "finalized_results_total", Help: "Candidates processed by result finalization",
	})
	Transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "course_transitions_total", Help: "Archive/restore/purge transitions",
	}, []string{"action"})
	OpErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "operation_errors_total", Help: "Engine errors by operation and kind",
	}, []string{"op", "kind"})
	Courses = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, Name: "courses", Help: "Courses by lifecycle state",
	}, []string{"state"})
	ActiveRegistrations = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, Name: "active_registrations", Help: "Registrations not cancelled",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(Registrations, Cancellations, AttendanceRows, FinalizedResults,
		Transitions, OpErrors, Courses, ActiveRegistrations, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

func ObserveError(op, kind string) { OpErrors.WithLabelValues(op, kind).Inc() }
