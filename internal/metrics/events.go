package metrics

import "time"

// BookingCreated records a new pending booking.
func BookingCreated() {
	BookingsCreated.Inc()
}

// BookingTransitioned records a booking reaching status.
func BookingTransitioned(status string) {
	BookingTransitions.WithLabelValues(status).Inc()
}

// NavEvent records a dropdown event such as "toggle".
func NavEvent(event string) {
	NavEvents.WithLabelValues(event).Inc()
}

// CacheHit and CacheMiss record read-model cache lookups.
func CacheHit(key string) {
	CacheLookups.WithLabelValues(key, "hit").Inc()
}

func CacheMiss(key string) {
	CacheLookups.WithLabelValues(key, "miss").Inc()
}

// ThumbnailGenerated records a newly stored thumbnail.
func ThumbnailGenerated() {
	ThumbnailsGenerated.Inc()
}

// JobCompleted records a successful job and how long it ran.
func JobCompleted(jobType string, duration time.Duration) {
	JobsTotal.WithLabelValues(jobType, "completed").Inc()
	JobDuration.WithLabelValues(jobType).Observe(duration.Seconds())
}

// JobFailed records a failed attempt. Permanent failures are not retried.
func JobFailed(jobType string, permanent bool) {
	status := "retry"
	if permanent {
		status = "failed"
	}
	JobsTotal.WithLabelValues(jobType, status).Inc()
}
