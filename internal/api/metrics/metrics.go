// Package metrics defines and registers all custom Prometheus metrics for the
// fleet logbook API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register themselves with the default
// registry at init via promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fleetlog"

// ── Entry metrics ─────────────────────────────────────────────────────────────

// EntriesCreatedTotal counts successfully submitted vehicle-condition entries.
var EntriesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entries_created_total",
		Help:      "Total number of vehicle-condition entries submitted successfully.",
	},
)

// PhotosUploadedTotal counts stored photos.
// Label:
//   - photo_type: one of the four required slots, or "optional"
var PhotosUploadedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photos_uploaded_total",
		Help:      "Total number of photos uploaded and recorded, by photo type.",
	},
	[]string{"photo_type"},
)

// PhotoPersistFailures counts submissions aborted while persisting photos.
// Label:
//   - stage: "upload" (binary write) or "metadata" (photo record batch)
var PhotoPersistFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "photo_persist_failures_total",
		Help:      "Total number of submissions aborted by a photo persistence failure, by stage.",
	},
	[]string{"stage"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure" (bad credentials), or "inactive"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
