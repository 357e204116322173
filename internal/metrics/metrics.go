package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the workflow transition counters exposed on /metrics.
type Metrics struct {
	CaseReviews          *prometheus.CounterVec
	ProofDecisions       *prometheus.CounterVec
	AssignmentsTotal     prometheus.Counter
	FeeEntriesTotal      prometheus.Counter
	NotificationsSent    prometheus.Counter
	NotificationsDropped prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		CaseReviews: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stipendia",
			Name:      "case_reviews_total",
			Help:      "Case review transitions by decision.",
		}, []string{"decision"}),
		ProofDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stipendia",
			Name:      "proof_decisions_total",
			Help:      "Proof submission decisions by outcome.",
		}, []string{"outcome"}),
		AssignmentsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "stipendia",
			Name:      "sponsor_assignments_total",
			Help:      "Sponsor-to-applicant assignments created.",
		}),
		FeeEntriesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "stipendia",
			Name:      "fee_entries_total",
			Help:      "Fee disclosure entries created.",
		}),
		NotificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "stipendia",
			Name:      "notifications_sent_total",
			Help:      "Notifications appended to recipient inboxes.",
		}),
		NotificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "stipendia",
			Name:      "notifications_dropped_total",
			Help:      "Notification appends that failed and were discarded.",
		}),
	}
}
