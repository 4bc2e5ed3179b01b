package ports

import (
	"context"

	"github.com/virtual-artifact/social-api/internal/core/domain"
)

// BackgroundJob is a unit of fire-and-forget work executed outside the
// request/response cycle. Run must not return errors to its scheduler; the
// job reports failures through its own side effects.
type BackgroundJob interface {
	// ShardKey groups jobs that must run in order (e.g. the same post).
	ShardKey() string
	Run(ctx context.Context)
}

// JobScheduler accepts background jobs without waiting for them.
type JobScheduler interface {
	Schedule(job BackgroundJob)
}

// EnrichmentJobBuilder turns an enrichment request into a schedulable job.
type EnrichmentJobBuilder interface {
	Job(job domain.EnrichmentJob) BackgroundJob
}
