package handler

import (
	"errors"
	"strconv"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/pkg/response"
	"talent-match/internal/repository"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchingUsecase
}

func NewMatchHandler(uc usecase.MatchingUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/matches/run", h.RunMatch)
	r.Get("/job-descriptions/:jd_id/matches", h.TopMatches)
}

// RunMatch triggers a scoring batch for one JD. The response reports every
// candidate either as a persisted result or as a failure with its reason
// kind; nothing is silently skipped.
func (h *MatchHandler) RunMatch(c fiber.Ctx) error {
	ownerID, ok := c.Locals(middleware.CtxOwnerIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.RunMatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.JDID == uuid.Nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "jd_id is required", nil, nil)
	}

	res, err := h.uc.RunMatch(c.Context(), ownerID, req.JDID, req.CandidateIDs)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "Match batch finished", dto.NewRunMatchResponse(res))
}

// TopMatches serves the ranked read path for one JD. It never triggers
// scoring; it reflects only stored results.
func (h *MatchHandler) TopMatches(c fiber.Ctx) error {
	ownerID, ok := c.Locals(middleware.CtxOwnerIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jdID, err := uuid.Parse(c.Params("jd_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	minScore := 0.0
	if raw := c.Query("min_score"); raw != "" {
		minScore, err = strconv.ParseFloat(raw, 64)
		if err != nil || minScore < 0 || minScore > 100 {
			return middleware.NewAppError(fiber.StatusBadRequest, "min_score must be a number in [0,100]", nil, err)
		}
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return middleware.NewAppError(fiber.StatusBadRequest, "limit must be a positive integer", nil, err)
		}
	}

	results, err := h.uc.TopMatches(c.Context(), ownerID, jdID, minScore, limit)
	if err != nil {
		return mapMatchingUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchResultListResponse(results))
}

func mapMatchingUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrJobDescriptionNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job description not found", nil, err)
	case errors.Is(err, usecase.ErrNoCandidates):
		return middleware.NewAppError(fiber.StatusBadRequest, "No candidates to score", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, repository.ErrStaleVersion):
		return middleware.NewAppError(fiber.StatusConflict, "Stale match version", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
