// Package metrics provides Prometheus metrics for the gobrain service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all service Prometheus metrics.
type Metrics struct {
	// ClassificationTotal counts classifications by outcome
	// (remote, fallback, default).
	ClassificationTotal *prometheus.CounterVec

	// ExtractionTotal counts URL extractions by result (ok, degraded).
	ExtractionTotal *prometheus.CounterVec

	// MediaBytesServed counts bytes served from the media store.
	MediaBytesServed prometheus.Counter

	// MediaStored counts media files written.
	MediaStored prometheus.Counter

	// NotesSaved counts notes persisted.
	NotesSaved prometheus.Counter
}

// New registers and returns the service metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ClassificationTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gobrain_classification_total",
			Help: "Total classifications by outcome (remote, fallback, default)",
		}, []string{"outcome"}),
		ExtractionTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gobrain_extraction_total",
			Help: "Total URL extractions by result (ok, degraded)",
		}, []string{"result"}),
		MediaBytesServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobrain_media_bytes_served_total",
			Help: "Total bytes served from the media store",
		}),
		MediaStored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobrain_media_stored_total",
			Help: "Total media files stored",
		}),
		NotesSaved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gobrain_notes_saved_total",
			Help: "Total notes persisted",
		}),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}

// RecordClassification records a classification outcome. Nil-safe.
func (m *Metrics) RecordClassification(outcome string) {
	if m == nil {
		return
	}
	m.ClassificationTotal.WithLabelValues(outcome).Inc()
}

// RecordExtraction records an extraction result. Nil-safe.
func (m *Metrics) RecordExtraction(result string) {
	if m == nil {
		return
	}
	m.ExtractionTotal.WithLabelValues(result).Inc()
}

// RecordMediaServed records bytes served from the media store. Nil-safe.
func (m *Metrics) RecordMediaServed(n int64) {
	if m == nil {
		return
	}
	m.MediaBytesServed.Add(float64(n))
}

// RecordMediaStored records a stored media file. Nil-safe.
func (m *Metrics) RecordMediaStored() {
	if m == nil {
		return
	}
	m.MediaStored.Inc()
}

// RecordNoteSaved records a persisted note. Nil-safe.
func (m *Metrics) RecordNoteSaved() {
	if m == nil {
		return
	}
	m.NotesSaved.Inc()
}
