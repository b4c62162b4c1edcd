package usecase

import (
	"context"

	"talent-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const dashboardTopMatches = 5

// Dashboard is the owner's at-a-glance view: stored totals plus the
// strongest matches across all JDs. Read-only; never triggers scoring.
type Dashboard struct {
	Counts     repository.DashboardCounts
	TopMatches []repository.TopMatchRow
}

type AnalyticsUsecase interface {
	Dashboard(ctx context.Context, ownerID uuid.UUID) (Dashboard, error)
}

type Analytics struct {
	repo repository.AnalyticsRepository
	log  *zap.Logger
}

func NewAnalyticsUsecase(repo repository.AnalyticsRepository, log *zap.Logger) *Analytics {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analytics{repo: repo, log: log}
}

func (u *Analytics) Dashboard(ctx context.Context, ownerID uuid.UUID) (Dashboard, error) {
	if ownerID == uuid.Nil {
		return Dashboard{}, ErrUnauthorized
	}

	counts, err := u.repo.DashboardCounts(ctx, ownerID)
	if err != nil {
		u.log.Error("load dashboard counts", zap.Error(err))
		return Dashboard{}, ErrInternal
	}

	top, err := u.repo.TopMatchesOverall(ctx, ownerID, dashboardTopMatches)
	if err != nil {
		u.log.Error("load top matches", zap.Error(err))
		return Dashboard{}, ErrInternal
	}

	return Dashboard{Counts: counts, TopMatches: top}, nil
}
