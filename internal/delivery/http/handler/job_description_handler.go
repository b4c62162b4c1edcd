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

type JobDescriptionHandler struct {
	uc usecase.JobDescriptionUsecase
}

func NewJobDescriptionHandler(uc usecase.JobDescriptionUsecase) *JobDescriptionHandler {
	return &JobDescriptionHandler{uc: uc}
}

func (h *JobDescriptionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/job-descriptions")
	grp.Post("/", h.Create)
	grp.Get("/", h.List)
	grp.Get("/:id", h.Get)
	grp.Put("/:id", h.Replace)
	grp.Delete("/:id", h.Delete)
}

func (h *JobDescriptionHandler) Create(c fiber.Ctx) error {
	ownerID, ok := c.Locals(middleware.CtxOwnerIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.JobDescriptionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	stored, err := h.uc.Ingest(c.Context(), req.ToDomain(ownerID, uuid.Nil))
	if err != nil {
		return mapJobDescriptionUsecaseError(err)
	}

	return response.Success(c, fiber.StatusCreated, "Job description created", dto.NewJobDescriptionResponse(stored))
}

func (h *JobDescriptionHandler) List(c fiber.Ctx) error {
	ownerID, ok := c.Locals(middleware.CtxOwnerIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jds, err := h.uc.List(c.Context(), ownerID)
	if err != nil {
		return mapJobDescriptionUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobDescriptionListResponse(jds))
}

func (h *JobDescriptionHandler) Get(c fiber.Ctx) error {
	ownerID, ok := c.Locals(middleware.CtxOwnerIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	jd, err := h.uc.Get(c.Context(), ownerID, id)
	if err != nil {
		return mapJobDescriptionUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobDescriptionResponse(jd))
}

func (h *JobDescriptionHandler) Replace(c fiber.Ctx) error {
	ownerID, ok := c.Locals(middleware.CtxOwnerIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var req dto.JobDescriptionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	stored, err := h.uc.Replace(c.Context(), req.ToDomain(ownerID, id))
	if err != nil {
		return mapJobDescriptionUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "Job description replaced", dto.NewJobDescriptionResponse(stored))
}

func (h *JobDescriptionHandler) Delete(c fiber.Ctx) error {
	ownerID, ok := c.Locals(middleware.CtxOwnerIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := h.uc.Delete(c.Context(), ownerID, id); err != nil {
		return mapJobDescriptionUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, "Job description deleted", nil)
}

func mapJobDescriptionUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidRecord):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, "Job description record incomplete", nil, err)
	case errors.Is(err, usecase.ErrJobDescriptionNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job description not found", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
