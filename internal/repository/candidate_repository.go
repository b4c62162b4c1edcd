package repository

import (
	"context"
	"encoding/json"
	"time"

	"talent-match/internal/database"
	"talent-match/internal/domain/match"

	"github.com/google/uuid"
)

type CandidateRepository interface {
	Create(ctx context.Context, c match.Candidate) error
	Replace(ctx context.Context, c match.Candidate) (bool, error)
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (match.Candidate, bool, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]match.Candidate, error)
	ListByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]match.Candidate, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
}

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

const candidateColumns = `id, owner_id, name, email, skills, experience, education, certifications, created_at, updated_at`

func (r *PostgresCandidateRepository) Create(ctx context.Context, c match.Candidate) error {
	skills, experience, education, certs, err := marshalCandidateFields(c)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO candidates (id, owner_id, name, email, skills, experience, education, certifications, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.ID, c.OwnerID, c.Name, c.Email, skills, experience, education, certs, c.CreatedAt, now,
	)
	return err
}

// Replace implements replace-by-id for re-uploads. Returns false when no row
// with the id exists for the owner.
func (r *PostgresCandidateRepository) Replace(ctx context.Context, c match.Candidate) (bool, error) {
	skills, experience, education, certs, err := marshalCandidateFields(c)
	if err != nil {
		return false, err
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE candidates
		 SET name = $3, email = $4, skills = $5, experience = $6, education = $7, certifications = $8, updated_at = $9
		 WHERE id = $1 AND owner_id = $2`,
		c.ID, c.OwnerID, c.Name, c.Email, skills, experience, education, certs, time.Now().UTC(),
	)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PostgresCandidateRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (match.Candidate, bool, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	c, err := scanCandidate(row)
	if err != nil {
		if isNoRows(err) {
			return match.Candidate{}, false, nil
		}
		return match.Candidate{}, false, err
	}
	return c, true, nil
}

func (r *PostgresCandidateRepository) List(ctx context.Context, ownerID uuid.UUID) ([]match.Candidate, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE owner_id = $1 ORDER BY created_at ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCandidates(rows)
}

func (r *PostgresCandidateRepository) ListByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]match.Candidate, error) {
	if len(ids) == 0 {
		return []match.Candidate{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE owner_id = $1 AND id = ANY($2) ORDER BY created_at ASC, id ASC`,
		ownerID, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCandidates(rows)
}

// Delete removes the candidate; match results referencing it go with it in
// the same statement through the FK cascade, so a reader never observes a
// dangling result.
func (r *PostgresCandidateRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM candidates WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func marshalCandidateFields(c match.Candidate) (skills, experience, education, certs []byte, err error) {
	if skills, err = json.Marshal(sliceOrEmpty(c.Skills)); err != nil {
		return nil, nil, nil, nil, err
	}
	if c.Experience == nil {
		c.Experience = []match.ExperienceEntry{}
	}
	if experience, err = json.Marshal(c.Experience); err != nil {
		return nil, nil, nil, nil, err
	}
	if c.Education == nil {
		c.Education = []match.EducationEntry{}
	}
	if education, err = json.Marshal(c.Education); err != nil {
		return nil, nil, nil, nil, err
	}
	if certs, err = json.Marshal(sliceOrEmpty(c.Certifications)); err != nil {
		return nil, nil, nil, nil, err
	}
	return skills, experience, education, certs, nil
}

func scanCandidate(row database.Row) (match.Candidate, error) {
	var c match.Candidate
	var skills, experience, education, certs []byte

	if err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Email, &skills, &experience, &education, &certs, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return match.Candidate{}, err
	}

	if err := json.Unmarshal(skills, &c.Skills); err != nil {
		return match.Candidate{}, err
	}
	if err := json.Unmarshal(experience, &c.Experience); err != nil {
		return match.Candidate{}, err
	}
	if err := json.Unmarshal(education, &c.Education); err != nil {
		return match.Candidate{}, err
	}
	if err := json.Unmarshal(certs, &c.Certifications); err != nil {
		return match.Candidate{}, err
	}
	return c, nil
}

func collectCandidates(rows database.Rows) ([]match.Candidate, error) {
	out := make([]match.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func sliceOrEmpty(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
