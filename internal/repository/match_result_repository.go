package repository

import (
	"context"
	"encoding/json"
	"time"

	"talent-match/internal/database"
	"talent-match/internal/domain/match"

	"github.com/google/uuid"
)

type MatchResultRepository interface {
	NextVersion(ctx context.Context, candidateID, jdID uuid.UUID) (int64, error)
	Upsert(ctx context.Context, res match.MatchResult) error
	TopMatches(ctx context.Context, ownerID, jdID uuid.UUID, minScore float64, limit int) ([]match.MatchResult, error)
}

type PostgresMatchResultRepository struct {
	db database.DB
}

func NewPostgresMatchResultRepository(db database.DB) *PostgresMatchResultRepository {
	return &PostgresMatchResultRepository{db: db}
}

// NextVersion returns the version a recompute of the pair must carry.
// Two concurrent re-runs of the same pair read the same base version, so
// only the first upsert lands; the slower one is rejected as stale.
func (r *PostgresMatchResultRepository) NextVersion(ctx context.Context, candidateID, jdID uuid.UUID) (int64, error) {
	row := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(version), 0) + 1 FROM match_results WHERE candidate_id = $1 AND jd_id = $2`,
		candidateID, jdID,
	)
	var v int64
	if err := row.Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

// Upsert writes the pair's current result. The conflict clause acts as a
// compare-and-set on version: an update only applies while the stored
// version is strictly lower, so last-write-wins is decided by version, not
// by arrival order. Zero affected rows means the write was stale.
func (r *PostgresMatchResultRepository) Upsert(ctx context.Context, res match.MatchResult) error {
	matched, err := json.Marshal(sliceOrEmpty(res.SkillsMatched))
	if err != nil {
		return err
	}
	missing, err := json.Marshal(sliceOrEmpty(res.SkillsMissing))
	if err != nil {
		return err
	}
	explanations, err := json.Marshal(res.Explanations)
	if err != nil {
		return err
	}
	if res.ComputedAt.IsZero() {
		res.ComputedAt = time.Now().UTC()
	}

	affected, err := r.db.Exec(ctx,
		`INSERT INTO match_results (candidate_id, jd_id, owner_id,
			skills_score, experience_score, education_score, certifications_score, total_score,
			skills_matched, skills_missing, explanations, version, computed_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		 ON CONFLICT (candidate_id, jd_id) DO UPDATE SET
			skills_score = EXCLUDED.skills_score,
			experience_score = EXCLUDED.experience_score,
			education_score = EXCLUDED.education_score,
			certifications_score = EXCLUDED.certifications_score,
			total_score = EXCLUDED.total_score,
			skills_matched = EXCLUDED.skills_matched,
			skills_missing = EXCLUDED.skills_missing,
			explanations = EXCLUDED.explanations,
			version = EXCLUDED.version,
			computed_at = EXCLUDED.computed_at
		 WHERE match_results.version < EXCLUDED.version`,
		res.CandidateID, res.JDID, res.OwnerID,
		res.SkillsScore, res.ExperienceScore, res.EducationScore, res.CertificationsScore, res.TotalScore,
		matched, missing, explanations, res.Version, res.ComputedAt,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStaleVersion
	}
	return nil
}

// TopMatches serves the ranked read path: all current results for the JD at
// or above minScore, ordered by the canonical tie-break (total desc, skills
// desc, experience desc, candidate id asc).
func (r *PostgresMatchResultRepository) TopMatches(ctx context.Context, ownerID, jdID uuid.UUID, minScore float64, limit int) ([]match.MatchResult, error) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}

	rows, err := r.db.Query(ctx,
		`SELECT candidate_id, jd_id, owner_id,
			skills_score, experience_score, education_score, certifications_score, total_score,
			skills_matched, skills_missing, explanations, version, computed_at
		 FROM match_results
		 WHERE jd_id = $1 AND owner_id = $2 AND total_score >= $3
		 ORDER BY total_score DESC, skills_score DESC, experience_score DESC, candidate_id ASC
		 LIMIT $4`,
		jdID, ownerID, minScore, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.MatchResult, 0)
	for rows.Next() {
		var res match.MatchResult
		var matched, missing, explanations []byte

		if err := rows.Scan(&res.CandidateID, &res.JDID, &res.OwnerID,
			&res.SkillsScore, &res.ExperienceScore, &res.EducationScore, &res.CertificationsScore, &res.TotalScore,
			&matched, &missing, &explanations, &res.Version, &res.ComputedAt,
		); err != nil {
			return nil, err
		}

		if err := json.Unmarshal(matched, &res.SkillsMatched); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(missing, &res.SkillsMissing); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(explanations, &res.Explanations); err != nil {
			return nil, err
		}

		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
