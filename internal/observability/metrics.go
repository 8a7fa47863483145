package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	workoutsRecorded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "controller",
		Name:      "workouts_recorded_total",
		Help:      "Number of workouts recorded from the form, labeled by type.",
	}, []string{"type"})
	submissionsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mapty",
		Subsystem: "controller",
		Name:      "submissions_rejected_total",
		Help:      "Number of form submissions rejected by validation, labeled by type field.",
	}, []string{"type"})
	lastRecordedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Subsystem: "controller",
		Name:      "last_workout_recorded_timestamp_seconds",
		Help:      "Unix timestamp of the most recently recorded workout.",
	})
	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "mapty",
		Subsystem: "ws",
		Name:      "active_sessions",
		Help:      "Number of connected browser sessions.",
	})
)

func init() {
	prometheus.MustRegister(workoutsRecorded, submissionsRejected, lastRecordedGauge, activeSessions)
}

// RecordWorkout counts a recorded workout and updates the watermark gauge.
func RecordWorkout(workoutType string, ts time.Time) {
	workoutsRecorded.WithLabelValues(workoutType).Inc()
	if ts.IsZero() {
		return
	}
	lastRecordedGauge.Set(float64(ts.Unix()))
}

// RecordRejectedSubmission counts a submission that failed validation.
func RecordRejectedSubmission(workoutType string) {
	submissionsRejected.WithLabelValues(workoutType).Inc()
}

// SessionOpened increments the active session gauge.
func SessionOpened() { activeSessions.Inc() }

// SessionClosed decrements the active session gauge.
func SessionClosed() { activeSessions.Dec() }
