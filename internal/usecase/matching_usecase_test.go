package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"talent-match/internal/domain/match"
	"talent-match/internal/oracle"
	"talent-match/internal/repository"

	"github.com/google/uuid"
)

type fakeCandidateRepo struct {
	items []match.Candidate
	err   error
}

func (f *fakeCandidateRepo) Create(context.Context, match.Candidate) error { return nil }
func (f *fakeCandidateRepo) Replace(context.Context, match.Candidate) (bool, error) {
	return false, nil
}
func (f *fakeCandidateRepo) FindByID(_ context.Context, _, id uuid.UUID) (match.Candidate, bool, error) {
	for _, c := range f.items {
		if c.ID == id {
			return c, true, nil
		}
	}
	return match.Candidate{}, false, nil
}
func (f *fakeCandidateRepo) List(context.Context, uuid.UUID) ([]match.Candidate, error) {
	return f.items, f.err
}
func (f *fakeCandidateRepo) ListByIDs(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]match.Candidate, error) {
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make([]match.Candidate, 0, len(ids))
	for _, c := range f.items {
		if _, ok := want[c.ID]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}
func (f *fakeCandidateRepo) Delete(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

type fakeJDRepo struct {
	jd    match.JobDescription
	found bool
}

func (f *fakeJDRepo) Create(context.Context, match.JobDescription) error { return nil }
func (f *fakeJDRepo) Replace(context.Context, match.JobDescription) (bool, error) {
	return false, nil
}
func (f *fakeJDRepo) FindByID(context.Context, uuid.UUID, uuid.UUID) (match.JobDescription, bool, error) {
	return f.jd, f.found, nil
}
func (f *fakeJDRepo) List(context.Context, uuid.UUID) ([]match.JobDescription, error) {
	return nil, nil
}
func (f *fakeJDRepo) Delete(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return false, nil
}

type pairKey struct {
	cand uuid.UUID
	jd   uuid.UUID
}

// fakeResultRepo mimics the store's version compare-and-set in memory.
type fakeResultRepo struct {
	mu      sync.Mutex
	stored  map[pairKey]match.MatchResult
	upserts int
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{stored: make(map[pairKey]match.MatchResult)}
}

func (f *fakeResultRepo) NextVersion(_ context.Context, candidateID, jdID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cur, ok := f.stored[pairKey{candidateID, jdID}]; ok {
		return cur.Version + 1, nil
	}
	return 1, nil
}

func (f *fakeResultRepo) Upsert(_ context.Context, res match.MatchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	key := pairKey{res.CandidateID, res.JDID}
	if cur, ok := f.stored[key]; ok && cur.Version >= res.Version {
		return repository.ErrStaleVersion
	}
	f.stored[key] = res
	return nil
}

func (f *fakeResultRepo) TopMatches(_ context.Context, _, jdID uuid.UUID, minScore float64, limit int) ([]match.MatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]match.MatchResult, 0)
	for key, res := range f.stored {
		if key.jd == jdID && res.TotalScore >= minScore {
			out = append(out, res)
		}
	}
	match.SortResults(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeScorer struct {
	scores map[uuid.UUID]float64
	errs   map[uuid.UUID]error
}

func (f *fakeScorer) Score(_ context.Context, cand match.Candidate, jd match.JobDescription) (match.ScoreRecord, error) {
	if err, ok := f.errs[cand.ID]; ok {
		return match.ScoreRecord{}, err
	}
	return match.ScoreRecord{
		CandidateID:         cand.ID,
		SkillsScore:         f.scores[cand.ID],
		ExperienceScore:     f.scores[cand.ID],
		EducationScore:      f.scores[cand.ID],
		CertificationsScore: f.scores[cand.ID],
		SkillsMatched:       jd.RequiredSkillNames(),
	}, nil
}

type fakeCache struct {
	mu           sync.Mutex
	entries      map[string][]byte
	invalidated  []string
	setCalls     int
	getHits      int
	deleteCalled bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	f.getHits++
	return true, json.Unmarshal(raw, out)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	f.setCalls++
	return nil
}

func (f *fakeCache) InvalidateMatches(_ context.Context, jdID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, jdID)
	f.entries = make(map[string][]byte)
	return nil
}

func (f *fakeCache) DeleteByPattern(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalled = true
	f.entries = make(map[string][]byte)
	return nil
}

func newCandidates(n int) []match.Candidate {
	out := make([]match.Candidate, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, match.Candidate{ID: uuid.New(), Name: "c", Skills: []string{"Go"}})
	}
	return out
}

func testMatchingJD() (match.JobDescription, uuid.UUID) {
	owner := uuid.New()
	return match.JobDescription{
		ID:             uuid.New(),
		OwnerID:        owner,
		Title:          "Backend Engineer",
		RequiredSkills: []match.RequiredSkill{{Name: "Go"}},
	}, owner
}

func TestRunMatch_OneFailureDoesNotAbortBatch(t *testing.T) {
	jd, owner := testMatchingJD()
	cands := newCandidates(5)

	scorer := &fakeScorer{
		scores: map[uuid.UUID]float64{},
		errs:   map[uuid.UUID]error{cands[2].ID: oracle.NewError(oracle.KindTimeout, errors.New("deadline"))},
	}
	for _, c := range cands {
		scorer.scores[c.ID] = 70
	}

	results := newFakeResultRepo()
	uc := NewMatchingUsecase(
		&fakeCandidateRepo{items: cands},
		&fakeJDRepo{jd: jd, found: true},
		results,
		scorer,
		newFakeCache(),
		nil, nil, 2, time.Minute,
	)

	out, err := uc.RunMatch(context.Background(), owner, jd.ID, nil)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Succeeded) != 4 {
		t.Fatalf("expected 4 successes, got %d", len(out.Succeeded))
	}
	if len(out.Failed) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(out.Failed))
	}
	if out.Failed[0].CandidateID != cands[2].ID || out.Failed[0].Kind != "timeout" {
		t.Fatalf("unexpected failure: %+v", out.Failed[0])
	}
	if results.upserts != 4 {
		t.Fatalf("failed pair must not touch the store, got %d upserts", results.upserts)
	}
}

func TestRunMatch_UnknownExplicitCandidateReported(t *testing.T) {
	jd, owner := testMatchingJD()
	cands := newCandidates(1)
	scorer := &fakeScorer{scores: map[uuid.UUID]float64{cands[0].ID: 50}}

	uc := NewMatchingUsecase(
		&fakeCandidateRepo{items: cands},
		&fakeJDRepo{jd: jd, found: true},
		newFakeResultRepo(),
		scorer,
		newFakeCache(),
		nil, nil, 2, time.Minute,
	)

	ghost := uuid.New()
	out, err := uc.RunMatch(context.Background(), owner, jd.ID, []uuid.UUID{cands[0].ID, ghost})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out.Succeeded) != 1 {
		t.Fatalf("expected 1 success, got %d", len(out.Succeeded))
	}
	if len(out.Failed) != 1 || out.Failed[0].CandidateID != ghost || out.Failed[0].Kind != "not_found" {
		t.Fatalf("unexpected failures: %+v", out.Failed)
	}
}

func TestRunMatch_NoCandidates(t *testing.T) {
	jd, owner := testMatchingJD()

	uc := NewMatchingUsecase(
		&fakeCandidateRepo{},
		&fakeJDRepo{jd: jd, found: true},
		newFakeResultRepo(),
		&fakeScorer{},
		nil, nil, nil, 2, time.Minute,
	)

	_, err := uc.RunMatch(context.Background(), owner, jd.ID, nil)
	if !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
}

func TestRunMatch_JobDescriptionNotFound(t *testing.T) {
	uc := NewMatchingUsecase(
		&fakeCandidateRepo{},
		&fakeJDRepo{},
		newFakeResultRepo(),
		&fakeScorer{},
		nil, nil, nil, 2, time.Minute,
	)

	_, err := uc.RunMatch(context.Background(), uuid.New(), uuid.New(), nil)
	if !errors.Is(err, ErrJobDescriptionNotFound) {
		t.Fatalf("expected ErrJobDescriptionNotFound, got %v", err)
	}
}

func TestRunMatch_RecomputeAdvancesVersion(t *testing.T) {
	jd, owner := testMatchingJD()
	cands := newCandidates(1)
	scorer := &fakeScorer{scores: map[uuid.UUID]float64{cands[0].ID: 80}}

	results := newFakeResultRepo()
	uc := NewMatchingUsecase(
		&fakeCandidateRepo{items: cands},
		&fakeJDRepo{jd: jd, found: true},
		results,
		scorer,
		newFakeCache(),
		nil, nil, 1, time.Minute,
	)

	if _, err := uc.RunMatch(context.Background(), owner, jd.ID, nil); err != nil {
		t.Fatalf("first run: %v", err)
	}
	out, err := uc.RunMatch(context.Background(), owner, jd.ID, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(out.Succeeded) != 1 || out.Succeeded[0].Version != 2 {
		t.Fatalf("expected version 2 after recompute, got %+v", out.Succeeded)
	}

	stored := results.stored[pairKey{cands[0].ID, jd.ID}]
	if stored.Version != 2 {
		t.Fatalf("store kept stale version %d", stored.Version)
	}
}

func TestUpsert_StaleVersionRejected(t *testing.T) {
	results := newFakeResultRepo()
	candID, jdID := uuid.New(), uuid.New()

	fresh := match.MatchResult{CandidateID: candID, JDID: jdID, Version: 2, TotalScore: 90}
	stale := match.MatchResult{CandidateID: candID, JDID: jdID, Version: 1, TotalScore: 10}

	if err := results.Upsert(context.Background(), fresh); err != nil {
		t.Fatalf("fresh upsert: %v", err)
	}
	if err := results.Upsert(context.Background(), stale); !errors.Is(err, repository.ErrStaleVersion) {
		t.Fatalf("expected ErrStaleVersion, got %v", err)
	}
	if results.stored[pairKey{candID, jdID}].TotalScore != 90 {
		t.Fatalf("stale write overwrote newer result")
	}
}

func TestTopMatches_FilterBoundaryInclusive(t *testing.T) {
	jd, owner := testMatchingJD()
	results := newFakeResultRepo()

	scores := []float64{82, 55, 61, 60}
	for _, s := range scores {
		res := match.MatchResult{CandidateID: uuid.New(), JDID: jd.ID, OwnerID: owner, TotalScore: s, Version: 1}
		if err := results.Upsert(context.Background(), res); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	uc := NewMatchingUsecase(
		&fakeCandidateRepo{},
		&fakeJDRepo{jd: jd, found: true},
		results,
		&fakeScorer{},
		nil, nil, nil, 2, time.Minute,
	)

	out, err := uc.TopMatches(context.Background(), owner, jd.ID, 60, 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 results at min_score 60, got %d", len(out))
	}
	if out[0].TotalScore != 82 || out[1].TotalScore != 61 || out[2].TotalScore != 60 {
		t.Fatalf("unexpected order: %v %v %v", out[0].TotalScore, out[1].TotalScore, out[2].TotalScore)
	}
}

func TestTopMatches_CacheHitSkipsStore(t *testing.T) {
	jd, owner := testMatchingJD()
	results := newFakeResultRepo()
	cache := newFakeCache()

	res := match.MatchResult{CandidateID: uuid.New(), JDID: jd.ID, OwnerID: owner, TotalScore: 75, Version: 1}
	if err := results.Upsert(context.Background(), res); err != nil {
		t.Fatalf("seed: %v", err)
	}

	uc := NewMatchingUsecase(
		&fakeCandidateRepo{},
		&fakeJDRepo{jd: jd, found: true},
		results,
		&fakeScorer{},
		cache,
		nil, nil, 2, time.Minute,
	)

	first, err := uc.TopMatches(context.Background(), owner, jd.ID, 0, 10)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := uc.TopMatches(context.Background(), owner, jd.ID, 0, 10)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if cache.setCalls != 1 || cache.getHits != 1 {
		t.Fatalf("expected one fill and one hit, got sets=%d hits=%d", cache.setCalls, cache.getHits)
	}
	if len(first) != 1 || len(second) != 1 || second[0].TotalScore != 75 {
		t.Fatalf("cache returned wrong payload")
	}
}

func TestTopMatches_LimitClampedBeforeCaching(t *testing.T) {
	jd, owner := testMatchingJD()
	cache := newFakeCache()

	uc := NewMatchingUsecase(
		&fakeCandidateRepo{},
		&fakeJDRepo{jd: jd, found: true},
		newFakeResultRepo(),
		&fakeScorer{},
		cache,
		nil, nil, 2, time.Minute,
	)

	if _, err := uc.TopMatches(context.Background(), owner, jd.ID, 0, 5000); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	clamped := TopMatchesCacheKey(jd.ID, 0, 1000)
	if _, ok := cache.entries[clamped]; !ok {
		t.Fatalf("expected cache key for clamped limit, got %v", keysOf(cache.entries))
	}
	if _, ok := cache.entries[TopMatchesCacheKey(jd.ID, 0, 5000)]; ok {
		t.Fatalf("cache keyed by unclamped limit")
	}
}

func keysOf(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestRunMatch_InvalidatesCache(t *testing.T) {
	jd, owner := testMatchingJD()
	cands := newCandidates(1)
	scorer := &fakeScorer{scores: map[uuid.UUID]float64{cands[0].ID: 80}}
	cache := newFakeCache()

	uc := NewMatchingUsecase(
		&fakeCandidateRepo{items: cands},
		&fakeJDRepo{jd: jd, found: true},
		newFakeResultRepo(),
		scorer,
		cache,
		nil, nil, 1, time.Minute,
	)

	if _, err := uc.RunMatch(context.Background(), owner, jd.ID, nil); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != jd.ID.String() {
		t.Fatalf("expected cache invalidation for jd, got %v", cache.invalidated)
	}
}
