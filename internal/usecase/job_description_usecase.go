package usecase

import (
	"context"
	"errors"
	"time"

	"talent-match/internal/domain/match"
	"talent-match/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type JobDescriptionUsecase interface {
	Ingest(ctx context.Context, jd match.JobDescription) (match.JobDescription, error)
	Replace(ctx context.Context, jd match.JobDescription) (match.JobDescription, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (match.JobDescription, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]match.JobDescription, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type JobDescriptions struct {
	repo  repository.JobDescriptionRepository
	cache MatchCache
	log   *zap.Logger
}

func NewJobDescriptionUsecase(repo repository.JobDescriptionRepository, cache MatchCache, log *zap.Logger) *JobDescriptions {
	if log == nil {
		log = zap.NewNop()
	}
	return &JobDescriptions{repo: repo, cache: cache, log: log}
}

func (u *JobDescriptions) Ingest(ctx context.Context, jd match.JobDescription) (match.JobDescription, error) {
	if jd.OwnerID == uuid.Nil {
		return match.JobDescription{}, ErrUnauthorized
	}
	if err := jd.Validate(); err != nil {
		return match.JobDescription{}, errors.Join(ErrInvalidRecord, err)
	}

	if jd.ID == uuid.Nil {
		jd.ID = uuid.New()
	}
	jd.CreatedAt = time.Now().UTC()
	jd.UpdatedAt = jd.CreatedAt

	if err := u.repo.Create(ctx, jd); err != nil {
		u.log.Error("create job description", zap.Error(err))
		return match.JobDescription{}, ErrInternal
	}
	return jd, nil
}

func (u *JobDescriptions) Replace(ctx context.Context, jd match.JobDescription) (match.JobDescription, error) {
	if jd.OwnerID == uuid.Nil {
		return match.JobDescription{}, ErrUnauthorized
	}
	if jd.ID == uuid.Nil {
		return match.JobDescription{}, ErrJobDescriptionNotFound
	}
	if err := jd.Validate(); err != nil {
		return match.JobDescription{}, errors.Join(ErrInvalidRecord, err)
	}

	found, err := u.repo.Replace(ctx, jd)
	if err != nil {
		u.log.Error("replace job description", zap.Error(err))
		return match.JobDescription{}, ErrInternal
	}
	if !found {
		return match.JobDescription{}, ErrJobDescriptionNotFound
	}

	// Requirements changed; cached rankings computed against the old JD
	// must not be served.
	if u.cache != nil {
		if err := u.cache.InvalidateMatches(ctx, jd.ID.String()); err != nil {
			u.log.Warn("invalidate match cache", zap.Error(err))
		}
	}

	stored, ok, err := u.repo.FindByID(ctx, jd.OwnerID, jd.ID)
	if err != nil || !ok {
		return jd, nil
	}
	return stored, nil
}

func (u *JobDescriptions) Get(ctx context.Context, ownerID, id uuid.UUID) (match.JobDescription, error) {
	if ownerID == uuid.Nil {
		return match.JobDescription{}, ErrUnauthorized
	}

	jd, found, err := u.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		u.log.Error("find job description", zap.Error(err))
		return match.JobDescription{}, ErrInternal
	}
	if !found {
		return match.JobDescription{}, ErrJobDescriptionNotFound
	}
	return jd, nil
}

func (u *JobDescriptions) List(ctx context.Context, ownerID uuid.UUID) ([]match.JobDescription, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	out, err := u.repo.List(ctx, ownerID)
	if err != nil {
		u.log.Error("list job descriptions", zap.Error(err))
		return nil, ErrInternal
	}
	return out, nil
}

func (u *JobDescriptions) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if ownerID == uuid.Nil {
		return ErrUnauthorized
	}

	found, err := u.repo.Delete(ctx, ownerID, id)
	if err != nil {
		u.log.Error("delete job description", zap.Error(err))
		return ErrInternal
	}
	if !found {
		return ErrJobDescriptionNotFound
	}

	if u.cache != nil {
		if err := u.cache.InvalidateMatches(ctx, id.String()); err != nil {
			u.log.Warn("invalidate match cache", zap.Error(err))
		}
	}
	return nil
}
