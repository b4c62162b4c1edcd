package dto

import (
	"time"

	"talent-match/internal/domain/match"

	"github.com/google/uuid"
)

type RequiredSkill struct {
	Name       string `json:"name"`
	Importance int    `json:"importance,omitempty"`
}

type JobDescriptionRequest struct {
	Title                  string          `json:"title"`
	RequiredSkills         []RequiredSkill `json:"required_skills"`
	ExperienceRequired     string          `json:"experience_required"`
	EducationRequired      string          `json:"education_required"`
	RequiredCertifications []string        `json:"required_certifications"`
}

type JobDescriptionResponse struct {
	ID                     uuid.UUID       `json:"id"`
	Title                  string          `json:"title"`
	RequiredSkills         []RequiredSkill `json:"required_skills"`
	ExperienceRequired     string          `json:"experience_required,omitempty"`
	EducationRequired      string          `json:"education_required,omitempty"`
	RequiredCertifications []string        `json:"required_certifications"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

func (r JobDescriptionRequest) ToDomain(ownerID, id uuid.UUID) match.JobDescription {
	jd := match.JobDescription{
		ID:                     id,
		OwnerID:                ownerID,
		Title:                  r.Title,
		ExperienceRequired:     r.ExperienceRequired,
		EducationRequired:      r.EducationRequired,
		RequiredCertifications: r.RequiredCertifications,
	}
	for _, s := range r.RequiredSkills {
		jd.RequiredSkills = append(jd.RequiredSkills, match.RequiredSkill{Name: s.Name, Importance: s.Importance})
	}
	return jd
}

func NewJobDescriptionResponse(jd match.JobDescription) JobDescriptionResponse {
	out := JobDescriptionResponse{
		ID:                     jd.ID,
		Title:                  jd.Title,
		RequiredSkills:         make([]RequiredSkill, 0, len(jd.RequiredSkills)),
		ExperienceRequired:     jd.ExperienceRequired,
		EducationRequired:      jd.EducationRequired,
		RequiredCertifications: emptyIfNil(jd.RequiredCertifications),
		CreatedAt:              jd.CreatedAt,
		UpdatedAt:              jd.UpdatedAt,
	}
	for _, s := range jd.RequiredSkills {
		out.RequiredSkills = append(out.RequiredSkills, RequiredSkill{Name: s.Name, Importance: s.Importance})
	}
	return out
}

func NewJobDescriptionListResponse(jds []match.JobDescription) []JobDescriptionResponse {
	out := make([]JobDescriptionResponse, 0, len(jds))
	for _, jd := range jds {
		out = append(out, NewJobDescriptionResponse(jd))
	}
	return out
}
