package services

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/models"
)

type Stage string

const (
	StageReceived         Stage = "received"
	StageExtracting       Stage = "extracting"
	StageExtractionFailed Stage = "extraction_failed"
	StageExtracted        Stage = "extracted"
	StageNormalizing      Stage = "normalizing"
	StageNormalized       Stage = "normalized"
	StageKeyBuilding      Stage = "key_building"
	StageCacheProbing     Stage = "cache_probing"
	StageCacheHit         Stage = "cache_hit"
	StageCacheMiss        Stage = "cache_miss"
	StageScoring          Stage = "scoring"
	StageScoringFailed    Stage = "scoring_failed"
	StageScored           Stage = "scored"
	StageCacheWriting     Stage = "cache_writing"
	StageDone             Stage = "done"
)

type PipelineService interface {
	// Screen runs one request through extraction, normalization, the cache
	// and the screener. Only input errors are returned; model failures come
	// back as a degraded result and cache failures are absorbed.
	Screen(ctx context.Context, req models.ScreeningRequest) (*models.ScreeningResult, error)
}

type PipelineOptions struct {
	KeyPrefix string
	TTL       time.Duration
	// RawJobDescriptionKey skips whitespace normalization of the job
	// description so keys match entries written by older deployments.
	RawJobDescriptionKey bool
}

type pipelineService struct {
	pdfParser  PDFParserService
	normalizer *Normalizer
	cache      ResultCache
	screener   ScreenerService
	opts       PipelineOptions
	metrics    *Metrics
	logger     *zap.Logger
}

func NewPipelineService(
	pdfParser PDFParserService,
	normalizer *Normalizer,
	cache ResultCache,
	screener ScreenerService,
	opts PipelineOptions,
	metrics *Metrics,
	log *zap.Logger,
) PipelineService {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = DefaultKeyPrefix
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &pipelineService{
		pdfParser:  pdfParser,
		normalizer: normalizer,
		cache:      cache,
		screener:   screener,
		opts:       opts,
		metrics:    metrics,
		logger:     logger.WithFields(log),
	}
}

// IsPDFFilename reports whether name carries a .pdf extension.
func IsPDFFilename(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// Screen implements PipelineService.
func (p *pipelineService) Screen(ctx context.Context, req models.ScreeningRequest) (*models.ScreeningResult, error) {
	log := p.logger
	if id := logger.RequestIDFromContext(ctx); id != "" {
		log = log.With(zap.String(logger.FieldRequestID, id))
	}
	trace := func(stage Stage) {
		log.Debug("pipeline stage", zap.String("stage", string(stage)))
	}

	p.metrics.ScreenRequests.Add(1)
	trace(StageReceived)

	if err := p.validate(req); err != nil {
		p.metrics.RejectedRequests.Add(1)
		return nil, err
	}

	trace(StageExtracting)
	content, err := p.pdfParser.ExtractTextWithMetaData(req.ResumePDF)
	if err == nil && strings.TrimSpace(content.Text) == "" {
		err = errors.WithStack(ErrEmptyResume)
	}
	if err != nil {
		trace(StageExtractionFailed)
		p.metrics.RejectedRequests.Add(1)
		log.Info("resume rejected", zap.Error(err))
		return nil, err
	}
	trace(StageExtracted)
	log.Debug("resume extracted", zap.String("pdf", DescribePDF(content)))

	trace(StageNormalizing)
	input := p.normalize(content.Text, req.JobDescription)
	trace(StageNormalized)

	trace(StageKeyBuilding)
	key := Fingerprint(p.opts.KeyPrefix, input.Resume, input.JobDescription)
	log = log.With(zap.String(logger.FieldFingerprint, key))

	trace(StageCacheProbing)
	if cached, ok := p.lookup(ctx, key, log); ok {
		trace(StageCacheHit)
		result := cached.WithCache(models.CacheHit)
		return &result, nil
	}
	trace(StageCacheMiss)

	trace(StageScoring)
	scored, err := p.screener.Score(ctx, input.Resume, input.JobDescription)
	if err != nil {
		trace(StageScoringFailed)
		result := scored.WithCache(models.CacheMiss)
		return &result, nil
	}
	trace(StageScored)

	trace(StageCacheWriting)
	p.store(ctx, key, scored, log)
	trace(StageDone)

	result := scored.WithCache(models.CacheMiss)
	return &result, nil
}

func (p *pipelineService) validate(req models.ScreeningRequest) error {
	if len(req.ResumePDF) == 0 {
		return &MissingInputError{Field: "resume"}
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return &MissingInputError{Field: "job_description"}
	}
	if req.Filename != "" && !IsPDFFilename(req.Filename) {
		return errors.WithStack(ErrUnsupportedFile)
	}
	return nil
}

func (p *pipelineService) normalize(resumeText, jobDescription string) models.NormalizedInput {
	if !p.opts.RawJobDescriptionKey {
		jobDescription = NormalizeWhitespace(jobDescription)
	}
	return models.NormalizedInput{
		Resume:         p.normalizer.Normalize(resumeText),
		JobDescription: jobDescription,
	}
}

func (p *pipelineService) lookup(ctx context.Context, key string, log *zap.Logger) (models.ScreeningResult, bool) {
	data, found, err := p.cache.Get(ctx, key)
	if err != nil {
		p.metrics.CacheErrors.Add(1)
		p.metrics.CacheMisses.Add(1)
		log.Warn("cache lookup failed, treating as miss", zap.Error(err))
		return models.ScreeningResult{}, false
	}
	if !found {
		p.metrics.CacheMisses.Add(1)
		return models.ScreeningResult{}, false
	}

	var result models.ScreeningResult
	if err := json.Unmarshal(data, &result); err != nil {
		p.metrics.CacheMisses.Add(1)
		log.Warn("discarding unreadable cache entry", zap.Error(err))
		return models.ScreeningResult{}, false
	}
	// Entries written by older deployments may carry null lists.
	if result.KeyStrengths == nil {
		result.KeyStrengths = []string{}
	}
	if result.MissingCriticalSkills == nil {
		result.MissingCriticalSkills = []string{}
	}

	p.metrics.CacheHits.Add(1)
	return result, true
}

func (p *pipelineService) store(ctx context.Context, key string, result models.ScreeningResult, log *zap.Logger) {
	data, err := json.Marshal(result.WithCache(""))
	if err != nil {
		log.Error("failed to encode screening result", zap.Error(err))
		return
	}

	if err := p.cache.Set(ctx, key, data, p.opts.TTL); err != nil {
		p.metrics.CacheErrors.Add(1)
		log.Warn("cache write failed, result not cached", zap.Error(err))
	}
}
