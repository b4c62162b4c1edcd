package dto

import (
	"talent-match/internal/usecase"

	"github.com/google/uuid"
)

type DashboardTopMatch struct {
	CandidateID   uuid.UUID `json:"candidate_id"`
	JDID          uuid.UUID `json:"jd_id"`
	CandidateName string    `json:"candidate_name"`
	JDTitle       string    `json:"jd_title"`
	TotalScore    float64   `json:"total_score"`
}

type DashboardResponse struct {
	TotalCandidates      int64               `json:"total_candidates"`
	TotalJobDescriptions int64               `json:"total_job_descriptions"`
	TotalMatches         int64               `json:"total_matches"`
	HighScoringMatches   int64               `json:"high_scoring_matches"`
	TopMatches           []DashboardTopMatch `json:"top_matches"`
}

func NewDashboardResponse(d usecase.Dashboard) DashboardResponse {
	out := DashboardResponse{
		TotalCandidates:      d.Counts.Candidates,
		TotalJobDescriptions: d.Counts.JobDescriptions,
		TotalMatches:         d.Counts.Matches,
		HighScoringMatches:   d.Counts.HighScoring,
		TopMatches:           make([]DashboardTopMatch, 0, len(d.TopMatches)),
	}
	for _, m := range d.TopMatches {
		out.TopMatches = append(out.TopMatches, DashboardTopMatch{
			CandidateID:   m.CandidateID,
			JDID:          m.JDID,
			CandidateName: m.CandidateName,
			JDTitle:       m.JDTitle,
			TotalScore:    m.TotalScore,
		})
	}
	return out
}
