package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessageOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dayboard", Name: "message_operations_total", Help: "Message store operations by op and result."},
		[]string{"op", "result"},
	)
	ActiveMessages = prometheus.NewGauge(
		prometheus.GaugeOpts{Namespace: "dayboard", Name: "messages_active", Help: "Messages held in the active day bucket after the last mutation."},
	)
	ViewsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dayboard", Name: "views_recorded_total", Help: "View events by policy and whether the count was incremented."},
		[]string{"policy", "counted"},
	)
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dayboard", Name: "events_published_total", Help: "Change events handed to the publisher by result."},
		[]string{"result"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "dayboard", Name: "http_requests_total", Help: "Served HTTP requests by method and status."},
		[]string{"method", "status"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(MessageOperations)
	reg.MustRegister(ActiveMessages)
	reg.MustRegister(ViewsRecorded)
	reg.MustRegister(EventsPublished)
	reg.MustRegister(HTTPRequests)
}
