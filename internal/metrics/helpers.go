package metrics

import "time"

// Label names.
const (
	LabelKind    = "kind"
	LabelCache   = "cache"
	LabelStatus  = "status"
	LabelOutcome = "outcome"
)

// Simulation kinds.
const (
	KindBaseline     = "baseline"
	KindInjection    = "injection"
	KindComparison   = "comparison"
	KindOptimization = "optimization"
)

// Cache outcomes.
const (
	CacheHit      = "hit"
	CacheMiss     = "miss"
	CacheError    = "error"
	CacheDisabled = "disabled"
)

// Notification outcomes.
const (
	NotificationDelivered = "delivered"
	NotificationFailed    = "failed"
)

// ObserveSimulation records one evaluation.
func (c *Collector) ObserveSimulation(kind, cacheOutcome string, elapsed time.Duration, saturated bool) {
	c.SimulationsTotal.WithLabelValues(kind, cacheOutcome).Inc()
	c.SimulationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if saturated {
		c.SaturatedTotal.WithLabelValues(kind).Inc()
	}
}

// RunStarted marks an asynchronous run as executing.
func (c *Collector) RunStarted() {
	c.RunsInFlight.Inc()
}

// RunFinished pairs with RunStarted once the run reaches status.
func (c *Collector) RunFinished(status string) {
	c.RunsInFlight.Dec()
	c.RunsFinishedTotal.WithLabelValues(status).Inc()
}

// ObserveNotification records a callback delivery result.
func (c *Collector) ObserveNotification(delivered bool) {
	if delivered {
		c.NotificationsTotal.WithLabelValues(NotificationDelivered).Inc()
		return
	}
	c.NotificationsTotal.WithLabelValues(NotificationFailed).Inc()
}
