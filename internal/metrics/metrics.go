// Package metrics holds the Prometheus collectors for the shipping
// subsystem.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	StatusUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shipment_status_updates_total",
			Help: "Total number of shipment status updates, by new status",
		},
		[]string{"status"},
	)

	NotificationsSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shipment_notifications_sent_total",
			Help: "Total number of buyer notifications dispatched successfully",
		},
	)

	NotificationsFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shipment_notifications_failed_total",
			Help: "Total number of buyer notification dispatch failures",
		},
	)

	UploadURLsIssuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "proof_upload_urls_issued_total",
			Help: "Total number of proof-of-delivery upload URLs issued",
		},
	)

	UploadConfirmsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "proof_upload_confirms_total",
			Help: "Total number of proof-of-delivery upload confirmations",
		},
	)
)

// Register registers all collectors on the default registry.
func Register() {
	prometheus.MustRegister(
		StatusUpdatesTotal,
		NotificationsSentTotal,
		NotificationsFailedTotal,
		UploadURLsIssuedTotal,
		UploadConfirmsTotal,
	)
}
