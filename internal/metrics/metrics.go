// Package metrics exposes prometheus counters for the pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VideosSynced counts videos newly inserted by sync runs.
	VideosSynced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ideagen_videos_synced_total",
		Help: "Number of new videos stored by sync runs.",
	})

	// CommentsIngested counts comments newly inserted by ingestion.
	CommentsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ideagen_comments_ingested_total",
		Help: "Number of new comments stored by ingestion.",
	})

	// IdeasGenerated counts ideas persisted by generation runs.
	IdeasGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ideagen_ideas_generated_total",
		Help: "Number of ideas derived and stored.",
	})

	// ChannelSyncFailures counts per-channel failures during sync runs.
	ChannelSyncFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideagen_channel_sync_failures_total",
		Help: "Number of per-channel failures during sync runs.",
	}, []string{"kind"})
)
