package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"talent-match/internal/domain/match"
	"talent-match/internal/oracle"
	"talent-match/internal/repository"
	"talent-match/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BatchFailure is one candidate's scoring failure inside a batch, with the
// reason kind the caller can use to decide on a selective retry.
type BatchFailure struct {
	CandidateID uuid.UUID
	Kind        string
	Message     string
}

// BatchResult is the outcome of one orchestration run. Succeeded results
// are already persisted; failed entries never touched the store.
type BatchResult struct {
	JDID      uuid.UUID
	Succeeded []match.MatchResult
	Failed    []BatchFailure
}

type MatchingUsecase interface {
	RunMatch(ctx context.Context, ownerID, jdID uuid.UUID, candidateIDs []uuid.UUID) (BatchResult, error)
	TopMatches(ctx context.Context, ownerID, jdID uuid.UUID, minScore float64, limit int) ([]match.MatchResult, error)
}

type Matching struct {
	candidates repository.CandidateRepository
	jds        repository.JobDescriptionRepository
	results    repository.MatchResultRepository
	scorer     oracle.Scorer
	cache      MatchCache
	notifier   *ws.Notifier
	log        *zap.Logger

	maxInFlight int
	cacheTTL    time.Duration
}

func NewMatchingUsecase(
	candidates repository.CandidateRepository,
	jds repository.JobDescriptionRepository,
	results repository.MatchResultRepository,
	scorer oracle.Scorer,
	cache MatchCache,
	notifier *ws.Notifier,
	log *zap.Logger,
	maxInFlight int,
	cacheTTL time.Duration,
) *Matching {
	if maxInFlight <= 0 {
		maxInFlight = 4
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Matching{
		candidates:  candidates,
		jds:         jds,
		results:     results,
		scorer:      scorer,
		cache:       cache,
		notifier:    notifier,
		log:         log,
		maxInFlight: maxInFlight,
		cacheTTL:    cacheTTL,
	}
}

// RunMatch scores the JD against the requested candidates (all of the
// owner's candidates when candidateIDs is empty). Oracle calls run under a
// bounded worker pool; one candidate's failure never aborts the batch. Each
// success is upserted individually, so a cancelled or partially failed run
// leaves only complete, valid results behind.
func (u *Matching) RunMatch(ctx context.Context, ownerID, jdID uuid.UUID, candidateIDs []uuid.UUID) (BatchResult, error) {
	if ownerID == uuid.Nil {
		return BatchResult{}, ErrUnauthorized
	}
	if jdID == uuid.Nil {
		return BatchResult{}, ErrJobDescriptionNotFound
	}

	jd, found, err := u.jds.FindByID(ctx, ownerID, jdID)
	if err != nil {
		u.log.Error("load job description", zap.Error(err))
		return BatchResult{}, ErrInternal
	}
	if !found {
		return BatchResult{}, ErrJobDescriptionNotFound
	}

	out := BatchResult{JDID: jdID}

	var cands []match.Candidate
	if len(candidateIDs) == 0 {
		cands, err = u.candidates.List(ctx, ownerID)
	} else {
		cands, err = u.candidates.ListByIDs(ctx, ownerID, candidateIDs)
	}
	if err != nil {
		u.log.Error("load candidates", zap.Error(err))
		return BatchResult{}, ErrInternal
	}

	// An explicitly requested candidate that does not exist is a
	// caller-visible failure, never silently skipped.
	if len(candidateIDs) > 0 {
		known := make(map[uuid.UUID]struct{}, len(cands))
		for _, c := range cands {
			known[c.ID] = struct{}{}
		}
		for _, id := range candidateIDs {
			if _, ok := known[id]; !ok {
				out.Failed = append(out.Failed, BatchFailure{
					CandidateID: id,
					Kind:        "not_found",
					Message:     "candidate not found",
				})
			}
		}
	}

	if len(cands) == 0 && len(out.Failed) == 0 {
		return BatchResult{}, ErrNoCandidates
	}

	u.notifier.BatchStarted(jdID)
	defer u.notifier.BatchDone(jdID)

	// In-flight pairs run on a context detached from the batch cancel:
	// cancellation stops dispatch, while calls already started complete or
	// time out on their own budget.
	pairCtx := context.WithoutCancel(ctx)

	var mu sync.Mutex
	pool := NewWorkerPool(u.maxInFlight, len(cands))

	for _, cand := range cands {
		cand := cand
		pool.Submit(func(context.Context) error {
			res, err := u.scorePair(pairCtx, cand, jd)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				kind := oracle.FailureKind(err)
				if errors.Is(err, repository.ErrStaleVersion) {
					kind = "stale_version"
				}
				out.Failed = append(out.Failed, BatchFailure{
					CandidateID: cand.ID,
					Kind:        kind,
					Message:     err.Error(),
				})
				u.notifier.PairFailed(jdID, cand.ID, kind)
				return err
			}
			out.Succeeded = append(out.Succeeded, res)
			u.notifier.PairScored(jdID, cand.ID, res.TotalScore)
			return nil
		})
	}
	pool.Close()

	for range pool.Run(ctx) {
	}

	if u.cache != nil && len(out.Succeeded) > 0 {
		if err := u.cache.InvalidateMatches(pairCtx, jdID.String()); err != nil {
			u.log.Warn("invalidate match cache", zap.Error(err))
		}
	}

	match.SortResults(out.Succeeded)

	u.log.Info("match batch finished",
		zap.String("jd_id", jdID.String()),
		zap.Int("succeeded", len(out.Succeeded)),
		zap.Int("failed", len(out.Failed)),
	)

	return out, nil
}

// scorePair runs one oracle round-trip and persists the aggregated result.
// The version is reserved before the call so a concurrent re-run of the
// same pair serializes on the store's compare-and-set.
func (u *Matching) scorePair(ctx context.Context, cand match.Candidate, jd match.JobDescription) (match.MatchResult, error) {
	version, err := u.results.NextVersion(ctx, cand.ID, jd.ID)
	if err != nil {
		return match.MatchResult{}, err
	}

	rec, err := u.scorer.Score(ctx, cand, jd)
	if err != nil {
		return match.MatchResult{}, err
	}

	res := match.Finalize(rec, jd, version, time.Now().UTC())

	if err := u.results.Upsert(ctx, res); err != nil {
		if errors.Is(err, repository.ErrStaleVersion) {
			u.log.Warn("stale match result ignored",
				zap.String("candidate_id", cand.ID.String()),
				zap.String("jd_id", jd.ID.String()),
				zap.Int64("version", version),
			)
		}
		return match.MatchResult{}, err
	}

	return res, nil
}

// TopMatches serves the ranked read path. It never triggers oracle calls;
// it reflects only the last successfully aggregated state, cached briefly
// per (jd, min_score, limit) query.
func (u *Matching) TopMatches(ctx context.Context, ownerID, jdID uuid.UUID, minScore float64, limit int) ([]match.MatchResult, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if jdID == uuid.Nil {
		return nil, ErrJobDescriptionNotFound
	}
	if minScore < 0 {
		minScore = 0
	}
	if minScore > 100 {
		minScore = 100
	}
	if limit <= 0 {
		limit = 100
	}
	// Clamped here so the cache key always matches what the store can
	// actually return.
	if limit > 1000 {
		limit = 1000
	}

	_, found, err := u.jds.FindByID(ctx, ownerID, jdID)
	if err != nil {
		u.log.Error("load job description", zap.Error(err))
		return nil, ErrInternal
	}
	if !found {
		return nil, ErrJobDescriptionNotFound
	}

	cacheKey := TopMatchesCacheKey(jdID, minScore, limit)
	if u.cache != nil {
		var cached []match.MatchResult
		hit, err := u.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil && hit {
			return cached, nil
		}
	}

	results, err := u.results.TopMatches(ctx, ownerID, jdID, minScore, limit)
	if err != nil {
		u.log.Error("load top matches", zap.Error(err))
		return nil, ErrInternal
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, cacheKey, results, u.cacheTTL); err != nil {
			u.log.Warn("cache top matches", zap.Error(err))
		}
	}

	return results, nil
}
