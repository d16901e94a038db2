// Package pipeline orchestrates one prediction request end to end:
// feature resolution, classification, attribution, region adjustment,
// postprocessing, and explanation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/couchcryptid/land-risk-service/internal/domain"
	"github.com/couchcryptid/land-risk-service/internal/model"
	"github.com/couchcryptid/land-risk-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// ErrModelNotLoaded is returned when the classifier artifact is missing or
// unreadable. The HTTP boundary maps it to 503; there is no in-request
// retry beyond the lazy load reattempt.
var ErrModelNotLoaded = errors.New("classifier model not loaded")

// ValidationError marks a client-side input problem; the HTTP boundary
// maps it to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// AuditPublisher receives completed prediction audit events. Publishing is
// best-effort; failures are counted and logged but never fail the request.
type AuditPublisher interface {
	Publish(ctx context.Context, event AuditEvent) error
}

// Pipeline holds the process-wide read-only state (classifier, rule table)
// and the per-request pipeline logic. The classifier may start unloaded;
// every prediction reattempts the load until it succeeds.
type Pipeline struct {
	mu         sync.RWMutex
	classifier *model.Classifier

	modelPath string
	rules     domain.RuleTable
	fetcher   domain.EnvironmentalFetcher // nil disables the live tier
	audit     AuditPublisher              // nil disables the audit stream
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
}

// New creates a Pipeline and attempts an initial model load. A failed load
// is logged and deferred to the first request rather than failing startup.
func New(modelPath string, rules domain.RuleTable, fetcher domain.EnvironmentalFetcher, audit AuditPublisher, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Pipeline {
	p := &Pipeline{
		modelPath: modelPath,
		rules:     rules,
		fetcher:   fetcher,
		audit:     audit,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
	}
	metrics.RegionRules.Set(float64(len(rules)))
	if _, err := p.ensureModel(); err != nil {
		logger.Warn("classifier model unavailable at startup, will retry per request",
			"path", modelPath, "error", err)
	}
	return p
}

// CheckReadiness reports whether the service can serve predictions.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.classifier == nil {
		return ErrModelNotLoaded
	}
	return nil
}

// ensureModel returns the loaded classifier, lazily loading the artifact
// if a previous attempt failed.
func (p *Pipeline) ensureModel() (*model.Classifier, error) {
	p.mu.RLock()
	c := p.classifier
	p.mu.RUnlock()
	if c != nil {
		return c, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.classifier != nil {
		return p.classifier, nil
	}

	artifact, err := model.LoadArtifact(p.modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelNotLoaded, err)
	}
	classifier, err := model.NewClassifier(artifact)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelNotLoaded, err)
	}
	p.classifier = classifier
	p.metrics.ModelLoaded.Set(1)
	p.logger.Info("classifier model loaded",
		"path", p.modelPath,
		"classes", classifier.Classes(),
		"trees", len(artifact.Forest.Trees),
		"secondary", artifact.Secondary != nil,
	)
	return classifier, nil
}

// Predict runs the full inference pipeline for one request.
func (p *Pipeline) Predict(ctx context.Context, req Request) (*Response, error) {
	classifier, err := p.ensureModel()
	if err != nil {
		return nil, err
	}

	resolved, err := p.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	prediction, err := classifier.Predict(resolved.Features)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	attribution := classifier.Attribute(resolved.Features)
	p.metrics.AttributionTier.WithLabelValues(attribution.Tier).Inc()

	weights := domain.AdjustForRegion(attribution.Weights, resolved.Features, resolved.Rule)

	post := domain.Postprocess(prediction.Label, prediction.Confidence, resolved.Features)
	if post.Label != prediction.Label {
		rule := "promoted"
		if post.Label == domain.RiskMedium {
			rule = "demoted"
		}
		p.metrics.Postprocessed.WithLabelValues(rule).Inc()
		p.logger.Info("postprocessing rule fired",
			"from", prediction.Label, "to", post.Label, "note", post.Note)
	}

	explanation, factors := domain.ComposeExplanation(resolved, weights, post.Note)

	resp := assembleResponse(resolved, prediction, post, weights, explanation, factors)
	p.publishAudit(ctx, resolved, resp, attribution.Tier)
	return resp, nil
}

// resolve picks the resolution path: coordinates take precedence over
// manual features when both are present.
func (p *Pipeline) resolve(ctx context.Context, req Request) (domain.ResolvedFeatures, error) {
	if req.HasCoordinates() {
		resolved := domain.ResolveFromCoordinates(ctx, *req.Latitude, *req.Longitude, p.rules, p.fetcher, p.logger)
		if resolved.Region == "" && req.Region != "" {
			resolved.Region = req.Region
		}
		return resolved, nil
	}

	fv, err := req.manualFeatures()
	if err != nil {
		return domain.ResolvedFeatures{}, err
	}
	resolved := domain.ResolveManual(fv)
	resolved.Region = req.Region
	return resolved, nil
}

func (p *Pipeline) publishAudit(ctx context.Context, resolved domain.ResolvedFeatures, resp *Response, tier string) {
	if p.audit == nil {
		return
	}
	event := AuditEvent{
		RiskLevel:       resp.RiskLevel,
		Confidence:      resp.Confidence,
		Region:          resp.Region,
		AttributionTier: tier,
		Provenance:      resolved.Provenance,
		ProcessedAt:     p.clock.Now().UTC(),
	}
	if resolved.HasCoordinates {
		event.Latitude = resolved.Latitude
		event.Longitude = resolved.Longitude
	}
	if err := p.audit.Publish(ctx, event); err != nil {
		p.metrics.AuditErrors.Inc()
		p.logger.Warn("audit publish failed", "error", err)
		return
	}
	p.metrics.AuditPublished.Inc()
}
