package usecase

import (
	"context"
	"errors"
	"testing"

	"talent-match/internal/repository"

	"github.com/google/uuid"
)

type fakeAnalyticsRepo struct {
	counts    repository.DashboardCounts
	top       []repository.TopMatchRow
	countsErr error
	topErr    error

	topLimit int
}

func (f *fakeAnalyticsRepo) DashboardCounts(context.Context, uuid.UUID) (repository.DashboardCounts, error) {
	return f.counts, f.countsErr
}

func (f *fakeAnalyticsRepo) TopMatchesOverall(_ context.Context, _ uuid.UUID, limit int) ([]repository.TopMatchRow, error) {
	f.topLimit = limit
	return f.top, f.topErr
}

func TestDashboard_Success(t *testing.T) {
	repo := &fakeAnalyticsRepo{
		counts: repository.DashboardCounts{Candidates: 12, JobDescriptions: 3, Matches: 30, HighScoring: 7},
		top: []repository.TopMatchRow{
			{CandidateID: uuid.New(), JDID: uuid.New(), CandidateName: "Ana", JDTitle: "Backend Engineer", TotalScore: 91},
		},
	}

	d, err := NewAnalyticsUsecase(repo, nil).Dashboard(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if d.Counts.Candidates != 12 || d.Counts.HighScoring != 7 {
		t.Fatalf("unexpected counts: %+v", d.Counts)
	}
	if len(d.TopMatches) != 1 || d.TopMatches[0].CandidateName != "Ana" {
		t.Fatalf("unexpected top matches: %+v", d.TopMatches)
	}
	if repo.topLimit != 5 {
		t.Fatalf("expected leaderboard limit 5, got %d", repo.topLimit)
	}
}

func TestDashboard_Unauthorized(t *testing.T) {
	_, err := NewAnalyticsUsecase(&fakeAnalyticsRepo{}, nil).Dashboard(context.Background(), uuid.Nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDashboard_RepoErrorMapped(t *testing.T) {
	repo := &fakeAnalyticsRepo{countsErr: errors.New("boom")}
	_, err := NewAnalyticsUsecase(repo, nil).Dashboard(context.Background(), uuid.New())
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
