package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/virtual-artifact/social-api/internal/core/domain"
	"github.com/virtual-artifact/social-api/internal/core/ports"
	"github.com/virtual-artifact/social-api/internal/pkg/metrics"
	"github.com/virtual-artifact/social-api/pkg/logger"
)

const DefaultGenerationTimeout = 60 * time.Second

const (
	outcomeSucceeded        = "succeeded"
	outcomeGenerationFailed = "generation_failed"
	outcomeUpdateFailed     = "update_failed"
)

// EnrichmentPipeline generates an image for a post, attaches it and emails
// the owner. Every run ends in exactly one email; nothing is returned to the
// caller and nothing is retried.
type EnrichmentPipeline struct {
	generator ports.ImageGenerator
	posts     ports.PostImageUpdater
	mailer    *NotificationService
	timeout   time.Duration
	log       zerolog.Logger
}

func NewEnrichmentPipeline(
	generator ports.ImageGenerator,
	posts ports.PostImageUpdater,
	mailer *NotificationService,
	timeout time.Duration,
	log zerolog.Logger,
) *EnrichmentPipeline {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &EnrichmentPipeline{
		generator: generator,
		posts:     posts,
		mailer:    mailer,
		timeout:   timeout,
		log:       log,
	}
}

func (p *EnrichmentPipeline) Run(ctx context.Context, job domain.EnrichmentJob) {
	start := time.Now()
	log := p.log.With().
		Int64("post_id", job.PostID).
		Str("owner", logger.ObfuscateEmail(job.OwnerEmail)).
		Logger()

	outcome := p.run(ctx, job, log)

	metrics.EnrichmentJobsTotal.WithLabelValues(outcome).Inc()
	metrics.EnrichmentDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	log.Info().Str("outcome", outcome).Dur("took", time.Since(start)).Msg("enrichment finished")
}

func (p *EnrichmentPipeline) run(ctx context.Context, job domain.EnrichmentJob, log zerolog.Logger) string {
	result, err := p.generator.Generate(ctx, job.Prompt, p.timeout)
	if err == nil && (result == nil || result.OutputURL == "") {
		err = domain.NewParseError(errors.New("response has no output_url"))
	}
	if err != nil {
		log.Warn().Err(err).Msg("image generation failed")
		p.mailer.SendEnrichmentFailed(ctx, job.OwnerEmail, err)
		return outcomeGenerationFailed
	}

	affected, err := p.posts.UpdateImageURL(ctx, job.PostID, result.OutputURL)
	if err != nil {
		log.Error().Err(err).Msg("failed to attach generated image")
		p.mailer.SendEnrichmentFailed(ctx, job.OwnerEmail,
			fmt.Errorf("could not attach the generated image to post %d", job.PostID))
		return outcomeUpdateFailed
	}
	if affected == 0 {
		log.Warn().Msg("post not updated, it may have been deleted")
	}

	p.mailer.SendEnrichmentSucceeded(ctx, job.OwnerEmail, result.OutputURL, job.PostURL)
	return outcomeSucceeded
}

// Job wraps job for the dispatcher. Jobs for the same post share a shard
// and therefore run in scheduling order.
func (p *EnrichmentPipeline) Job(job domain.EnrichmentJob) ports.BackgroundJob {
	return &enrichmentJob{pipeline: p, job: job}
}

type enrichmentJob struct {
	pipeline *EnrichmentPipeline
	job      domain.EnrichmentJob
}

func (j *enrichmentJob) ShardKey() string { return "post:" + strconv.FormatInt(j.job.PostID, 10) }

func (j *enrichmentJob) Run(ctx context.Context) { j.pipeline.Run(ctx, j.job) }
