package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"talent-match/internal/domain/match"
	"talent-match/internal/logger"
	"talent-match/internal/oracle"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxAttempts    = 3
	defaultRequestTimeout = 60 * time.Second
	defaultBackoffBase    = 2 * time.Second
	maxLogPreview         = 200
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Scorer implements oracle.Scorer on top of a Gemini content generator.
// Retry and backoff live entirely here so the orchestrator sees one call,
// one outcome.
type Scorer struct {
	generator      contentGenerator
	log            *zap.Logger
	maxAttempts    int
	requestTimeout time.Duration
	backoffBase    time.Duration
}

type ScorerOptions struct {
	MaxAttempts    int
	RequestTimeout time.Duration
	BackoffBase    time.Duration
}

func NewScorer(generator contentGenerator, log *zap.Logger, opts ScorerOptions) *Scorer {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}
	if opts.BackoffBase <= 0 {
		opts.BackoffBase = defaultBackoffBase
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scorer{
		generator:      generator,
		log:            log,
		maxAttempts:    opts.MaxAttempts,
		requestTimeout: opts.RequestTimeout,
		backoffBase:    opts.BackoffBase,
	}
}

// Score sends one structured scoring request for the pair. Oracle failures
// (timeout, rate limit, outage, malformed response) are retried with
// exponential backoff up to the attempt cap; validation failures are
// returned immediately.
func (s *Scorer) Score(ctx context.Context, candidate match.Candidate, jd match.JobDescription) (match.ScoreRecord, error) {
	prompt, err := buildPrompt(candidate, jd)
	if err != nil {
		return match.ScoreRecord{}, oracle.NewError(oracle.KindMalformed, err)
	}

	s.log.Debug("oracle scoring request",
		zap.String("candidate_id", candidate.ID.String()),
		zap.String("jd_id", jd.ID.String()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleepBackoff(ctx, s.backoffBase, attempt-1); err != nil {
				return match.ScoreRecord{}, oracle.NewError(oracle.KindTimeout, err)
			}
		}

		rec, err := s.scoreOnce(ctx, prompt, candidate, jd)
		if err == nil {
			return rec, nil
		}

		var verr *oracle.ValidationError
		if errors.As(err, &verr) {
			return match.ScoreRecord{}, err
		}

		lastErr = err
		if !retryable(err) {
			break
		}

		if attempt < s.maxAttempts {
			s.log.Warn("oracle attempt failed, retrying",
				zap.String("candidate_id", candidate.ID.String()),
				zap.String("jd_id", jd.ID.String()),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
	}

	return match.ScoreRecord{}, lastErr
}

func (s *Scorer) scoreOnce(ctx context.Context, prompt string, candidate match.Candidate, jd match.JobDescription) (match.ScoreRecord, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()

	start := time.Now()
	raw, err := s.generator.GenerateContent(callCtx, prompt)
	if err != nil {
		return match.ScoreRecord{}, classify(err)
	}

	s.log.Debug("oracle scoring response",
		zap.String("candidate_id", candidate.ID.String()),
		zap.String("jd_id", jd.ID.String()),
		zap.Duration("latency", time.Since(start)),
		zap.String("response_preview", logger.Truncate(raw, maxLogPreview)),
	)

	var parsed oracle.RawScore
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return match.ScoreRecord{}, oracle.NewError(oracle.KindMalformed, fmt.Errorf("parse oracle response: %w", err))
	}

	rec, dropped, err := oracle.ValidateRecord(parsed, jd)
	if err != nil {
		return match.ScoreRecord{}, err
	}
	if len(dropped) > 0 {
		s.log.Warn("oracle returned unrecognized skill tokens",
			zap.String("candidate_id", candidate.ID.String()),
			zap.String("jd_id", jd.ID.String()),
			zap.Strings("dropped", dropped),
		)
	}

	rec.CandidateID = candidate.ID
	return rec, nil
}

func buildPrompt(candidate match.Candidate, jd match.JobDescription) (string, error) {
	candidatePayload := map[string]any{
		"name":           candidate.Name,
		"skills":         candidate.Skills,
		"experience":     candidate.Experience,
		"education":      candidate.Education,
		"certifications": candidate.Certifications,
	}
	jobPayload := map[string]any{
		"title":                   jd.Title,
		"required_skills":         jd.RequiredSkills,
		"experience_required":     jd.ExperienceRequired,
		"education_required":      jd.EducationRequired,
		"required_certifications": jd.RequiredCertifications,
	}

	candidateJSON, err := json.MarshalIndent(candidatePayload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal candidate payload: %w", err)
	}
	jobJSON, err := json.MarshalIndent(jobPayload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal job payload: %w", err)
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{CANDIDATE_JSON}}", string(candidateJSON))
	prompt = strings.ReplaceAll(prompt, "{{JOB_JSON}}", string(jobJSON))
	return prompt, nil
}

// classify maps transport errors to the oracle error taxonomy.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return oracle.NewError(oracle.KindTimeout, err)
	case errors.Is(err, context.Canceled):
		return oracle.NewError(oracle.KindTimeout, err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return oracle.NewError(oracle.KindRateLimited, err)
		case apiErr.Code >= 500:
			return oracle.NewError(oracle.KindUnavailable, err)
		default:
			return oracle.NewError(oracle.KindMalformed, err)
		}
	}

	return oracle.NewError(oracle.KindUnavailable, err)
}

// retryable covers every oracle error kind: timeouts, rate limits, and
// outages clear up on their own, and a malformed response from a
// non-deterministic model is often fine on the next call. Only validation
// failures stay out, since the same input will keep missing the same field.
func retryable(err error) bool {
	var oerr *oracle.Error
	return errors.As(err, &oerr)
}

func sleepBackoff(ctx context.Context, base time.Duration, failures int) error {
	delay := base
	for i := 1; i < failures; i++ {
		delay *= 2
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
