package repository

import (
	"context"

	"talent-match/internal/database"

	"github.com/google/uuid"
)

// DashboardCounts are the owner-scoped totals shown on the dashboard.
// HighScoring counts results at or above the 50-point line.
type DashboardCounts struct {
	Candidates      int64
	JobDescriptions int64
	Matches         int64
	HighScoring     int64
}

// TopMatchRow is one entry of the cross-JD leaderboard, joined with the
// display names the dashboard needs.
type TopMatchRow struct {
	CandidateID   uuid.UUID
	JDID          uuid.UUID
	CandidateName string
	JDTitle       string
	TotalScore    float64
}

type AnalyticsRepository interface {
	DashboardCounts(ctx context.Context, ownerID uuid.UUID) (DashboardCounts, error)
	TopMatchesOverall(ctx context.Context, ownerID uuid.UUID, limit int) ([]TopMatchRow, error)
}

type PostgresAnalyticsRepository struct {
	db database.DB
}

func NewPostgresAnalyticsRepository(db database.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

const highScoreThreshold = 50

func (r *PostgresAnalyticsRepository) DashboardCounts(ctx context.Context, ownerID uuid.UUID) (DashboardCounts, error) {
	row := r.db.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM candidates WHERE owner_id = $1),
			(SELECT COUNT(*) FROM job_descriptions WHERE owner_id = $1),
			(SELECT COUNT(*) FROM match_results WHERE owner_id = $1),
			(SELECT COUNT(*) FROM match_results WHERE owner_id = $1 AND total_score >= $2)`,
		ownerID, highScoreThreshold,
	)

	var c DashboardCounts
	if err := row.Scan(&c.Candidates, &c.JobDescriptions, &c.Matches, &c.HighScoring); err != nil {
		return DashboardCounts{}, err
	}
	return c, nil
}

// TopMatchesOverall ranks the owner's results across every JD by the
// canonical order and joins in candidate and JD names for display.
func (r *PostgresAnalyticsRepository) TopMatchesOverall(ctx context.Context, ownerID uuid.UUID, limit int) ([]TopMatchRow, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := r.db.Query(ctx,
		`SELECT m.candidate_id, m.jd_id, c.name, j.title, m.total_score
		 FROM match_results m
		 JOIN candidates c ON c.id = m.candidate_id
		 JOIN job_descriptions j ON j.id = m.jd_id
		 WHERE m.owner_id = $1
		 ORDER BY m.total_score DESC, m.skills_score DESC, m.experience_score DESC, m.candidate_id ASC
		 LIMIT $2`,
		ownerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]TopMatchRow, 0, limit)
	for rows.Next() {
		var row TopMatchRow
		if err := rows.Scan(&row.CandidateID, &row.JDID, &row.CandidateName, &row.JDTitle, &row.TotalScore); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
