package dto

import (
	"time"

	"talent-match/internal/domain/match"
	"talent-match/internal/usecase"

	"github.com/google/uuid"
)

type RunMatchRequest struct {
	JDID         uuid.UUID   `json:"jd_id"`
	CandidateIDs []uuid.UUID `json:"candidate_ids,omitempty"`
}

type CategoryExplanations struct {
	Skills         string `json:"skills"`
	Experience     string `json:"experience"`
	Education      string `json:"education"`
	Certifications string `json:"certifications"`
}

type MatchResultResponse struct {
	CandidateID         uuid.UUID            `json:"candidate_id"`
	JDID                uuid.UUID            `json:"jd_id"`
	SkillsScore         float64              `json:"skills_score"`
	ExperienceScore     float64              `json:"experience_score"`
	EducationScore      float64              `json:"education_score"`
	CertificationsScore float64              `json:"certifications_score"`
	TotalScore          float64              `json:"total_score"`
	SkillsMatched       []string             `json:"skills_matched"`
	SkillsMissing       []string             `json:"skills_missing"`
	Explanations        CategoryExplanations `json:"explanations"`
	Version             int64                `json:"version"`
	ComputedAt          time.Time            `json:"computed_at"`
}

type MatchFailureResponse struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Kind        string    `json:"kind"`
	Message     string    `json:"message"`
}

type RunMatchResponse struct {
	JDID      uuid.UUID              `json:"jd_id"`
	Succeeded []MatchResultResponse  `json:"succeeded"`
	Failed    []MatchFailureResponse `json:"failed"`
}

func NewMatchResultResponse(r match.MatchResult) MatchResultResponse {
	return MatchResultResponse{
		CandidateID:         r.CandidateID,
		JDID:                r.JDID,
		SkillsScore:         r.SkillsScore,
		ExperienceScore:     r.ExperienceScore,
		EducationScore:      r.EducationScore,
		CertificationsScore: r.CertificationsScore,
		TotalScore:          r.TotalScore,
		SkillsMatched:       emptyIfNil(r.SkillsMatched),
		SkillsMissing:       emptyIfNil(r.SkillsMissing),
		Explanations: CategoryExplanations{
			Skills:         r.Explanations.Skills,
			Experience:     r.Explanations.Experience,
			Education:      r.Explanations.Education,
			Certifications: r.Explanations.Certifications,
		},
		Version:    r.Version,
		ComputedAt: r.ComputedAt,
	}
}

func NewMatchResultListResponse(results []match.MatchResult) []MatchResultResponse {
	out := make([]MatchResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, NewMatchResultResponse(r))
	}
	return out
}

func NewRunMatchResponse(res usecase.BatchResult) RunMatchResponse {
	out := RunMatchResponse{
		JDID:      res.JDID,
		Succeeded: NewMatchResultListResponse(res.Succeeded),
		Failed:    make([]MatchFailureResponse, 0, len(res.Failed)),
	}
	for _, f := range res.Failed {
		out.Failed = append(out.Failed, MatchFailureResponse{
			CandidateID: f.CandidateID,
			Kind:        f.Kind,
			Message:     f.Message,
		})
	}
	return out
}
