package dto

import (
	"time"

	"talent-match/internal/domain/match"

	"github.com/google/uuid"
)

type ExperienceEntry struct {
	Role     string `json:"role"`
	Duration string `json:"duration"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Institution string `json:"institution"`
}

type CandidateRequest struct {
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Skills         []string          `json:"skills"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Certifications []string          `json:"certifications"`
}

type CandidateResponse struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email,omitempty"`
	Skills         []string          `json:"skills"`
	Experience     []ExperienceEntry `json:"experience"`
	Education      []EducationEntry  `json:"education"`
	Certifications []string          `json:"certifications"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func (r CandidateRequest) ToDomain(ownerID, id uuid.UUID) match.Candidate {
	c := match.Candidate{
		ID:             id,
		OwnerID:        ownerID,
		Name:           r.Name,
		Email:          r.Email,
		Skills:         r.Skills,
		Certifications: r.Certifications,
	}
	for _, e := range r.Experience {
		c.Experience = append(c.Experience, match.ExperienceEntry{Role: e.Role, Duration: e.Duration})
	}
	for _, e := range r.Education {
		c.Education = append(c.Education, match.EducationEntry{Degree: e.Degree, Field: e.Field, Institution: e.Institution})
	}
	return c
}

func NewCandidateResponse(c match.Candidate) CandidateResponse {
	out := CandidateResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Skills:         emptyIfNil(c.Skills),
		Experience:     make([]ExperienceEntry, 0, len(c.Experience)),
		Education:      make([]EducationEntry, 0, len(c.Education)),
		Certifications: emptyIfNil(c.Certifications),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	for _, e := range c.Experience {
		out.Experience = append(out.Experience, ExperienceEntry{Role: e.Role, Duration: e.Duration})
	}
	for _, e := range c.Education {
		out.Education = append(out.Education, EducationEntry{Degree: e.Degree, Field: e.Field, Institution: e.Institution})
	}
	return out
}

func NewCandidateListResponse(cands []match.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(cands))
	for _, c := range cands {
		out = append(out, NewCandidateResponse(c))
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
