package handler

import (
	"errors"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type CandidateHandler struct {
	uc usecase.CandidateUsecase
}

func NewCandidateHandler(uc usecase.CandidateUsecase) *CandidateHandler {
	return &CandidateHandler{uc: uc}
}

func (h *CandidateHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/candidates")
	grp.Post("/", h.Create)
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
	grp.Put("/:id", h.Replace)
	grp.Delete("/:id", h.Delete)
}

func (h *CandidateHandler) Create(c fiber.Ctx) error {
	ownerID, ok := c.Locals(middleware.CtxOwnerIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.CandidateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	stored, err := h.uc.Ingest(c.Context(), req.ToDomain(ownerID, uuid.Nil))
	if err != nil {
		return mapCandidateUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "Candidate created", dto.NewCandidateResponse(stored))
}

func (h *CandidateHandler) List(c fiber.Ctx) error {
	ownerID, ok := c.Locals(middleware.CtxOwnerIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	cands, err := h.uc.List(c.Context(), ownerID)
	if err != nil {
		return mapCandidateUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateListResponse(cands))
}

func (h *CandidateHandler) Get(c fiber.Ctx) error {
	ownerID, ok := c.Locals(middleware.CtxOwnerIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	cand, err := h.uc.Get(c.Context(), ownerID, id)
	if err != nil {
		return mapCandidateUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateResponse(cand))
}

func (h *CandidateHandler) Replace(c fiber.Ctx) error {
	ownerID, ok := c.Locals(middleware.CtxOwnerIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req dto.CandidateRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	stored, err := h.uc.Replace(c.Context(), req.ToDomain(ownerID, id))
	if err != nil {
		return mapCandidateUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "Candidate replaced", dto.NewCandidateResponse(stored))
}

func (h *CandidateHandler) Delete(c fiber.Ctx) error {
	ownerID, ok := c.Locals(middleware.CtxOwnerIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.Delete(c.Context(), ownerID, id); err != nil {
		return mapCandidateUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "Candidate deleted", nil)
}

func mapCandidateUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidRecord):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Candidate record incomplete", nil, err)
	case errors.Is(err, usecase.ErrCandidateNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Candidate not found", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
