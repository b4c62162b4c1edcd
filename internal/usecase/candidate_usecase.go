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

type CandidateUsecase interface {
	Ingest(ctx context.Context, c match.Candidate) (match.Candidate, error)
	Replace(ctx context.Context, c match.Candidate) (match.Candidate, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (match.Candidate, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]match.Candidate, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type Candidates struct {
	repo  repository.CandidateRepository
	cache MatchCache
	log   *zap.Logger
}

func NewCandidateUsecase(repo repository.CandidateRepository, cache MatchCache, log *zap.Logger) *Candidates {
	if log == nil {
		log = zap.NewNop()
	}
	return &Candidates{repo: repo, cache: cache, log: log}
}

// Ingest stores one normalized candidate record. A record missing required
// fields is rejected outright; nothing partial is ever written.
func (u *Candidates) Ingest(ctx context.Context, c match.Candidate) (match.Candidate, error) {
	if c.OwnerID == uuid.Nil {
		return match.Candidate{}, ErrUnauthorized
	}
	if err := c.Validate(); err != nil {
		return match.Candidate{}, errors.Join(ErrInvalidRecord, err)
	}

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt

	if err := u.repo.Create(ctx, c); err != nil {
		u.log.Error("create candidate", zap.Error(err))
		return match.Candidate{}, ErrInternal
	}
	return c, nil
}

// Replace is the re-upload path: the stored record is swapped wholesale for
// the new one under the same id.
func (u *Candidates) Replace(ctx context.Context, c match.Candidate) (match.Candidate, error) {
	if c.OwnerID == uuid.Nil {
		return match.Candidate{}, ErrUnauthorized
	}
	if c.ID == uuid.Nil {
		return match.Candidate{}, ErrCandidateNotFound
	}
	if err := c.Validate(); err != nil {
		return match.Candidate{}, errors.Join(ErrInvalidRecord, err)
	}

	found, err := u.repo.Replace(ctx, c)
	if err != nil {
		u.log.Error("replace candidate", zap.Error(err))
		return match.Candidate{}, ErrInternal
	}
	if !found {
		return match.Candidate{}, ErrCandidateNotFound
	}

	stored, ok, err := u.repo.FindByID(ctx, c.OwnerID, c.ID)
	if err != nil || !ok {
		return c, nil
	}
	return stored, nil
}

func (u *Candidates) Get(ctx context.Context, ownerID, id uuid.UUID) (match.Candidate, error) {
	if ownerID == uuid.Nil {
		return match.Candidate{}, ErrUnauthorized
	}

	c, found, err := u.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		u.log.Error("find candidate", zap.Error(err))
		return match.Candidate{}, ErrInternal
	}
	if !found {
		return match.Candidate{}, ErrCandidateNotFound
	}
	return c, nil
}

func (u *Candidates) List(ctx context.Context, ownerID uuid.UUID) ([]match.Candidate, error) {
	if ownerID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	out, err := u.repo.List(ctx, ownerID)
	if err != nil {
		u.log.Error("list candidates", zap.Error(err))
		return nil, ErrInternal
	}
	return out, nil
}

// Delete removes the candidate and, via the store's cascade, every match
// result referencing it. Cached rankings for any JD may include the
// candidate, so the whole ranked-read cache is dropped.
func (u *Candidates) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if ownerID == uuid.Nil {
		return ErrUnauthorized
	}

	found, err := u.repo.Delete(ctx, ownerID, id)
	if err != nil {
		u.log.Error("delete candidate", zap.Error(err))
		return ErrInternal
	}
	if !found {
		return ErrCandidateNotFound
	}

	if u.cache != nil {
		if err := u.cache.DeleteByPattern(ctx, "matches:top:*"); err != nil {
			u.log.Warn("invalidate match cache", zap.Error(err))
		}
	}
	return nil
}
