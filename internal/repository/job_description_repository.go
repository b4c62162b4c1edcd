package repository

import (
	"context"
	"encoding/json"
	"time"

	"talent-match/internal/database"
	"talent-match/internal/domain/match"

	"github.com/google/uuid"
)

type JobDescriptionRepository interface {
	Create(ctx context.Context, jd match.JobDescription) error
	Replace(ctx context.Context, jd match.JobDescription) (bool, error)
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (match.JobDescription, bool, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]match.JobDescription, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error)
}

type PostgresJobDescriptionRepository struct {
	db database.DB
}

func NewPostgresJobDescriptionRepository(db database.DB) *PostgresJobDescriptionRepository {
	return &PostgresJobDescriptionRepository{db: db}
}

const jobDescriptionColumns = `id, owner_id, title, required_skills, experience_required, education_required, required_certifications, created_at, updated_at`

func (r *PostgresJobDescriptionRepository) Create(ctx context.Context, jd match.JobDescription) error {
	skills, certs, err := marshalJobFields(jd)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if jd.CreatedAt.IsZero() {
		jd.CreatedAt = now
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO job_descriptions (id, owner_id, title, required_skills, experience_required, education_required, required_certifications, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		jd.ID, jd.OwnerID, jd.Title, skills, jd.ExperienceRequired, jd.EducationRequired, certs, jd.CreatedAt, now,
	)
	return err
}

func (r *PostgresJobDescriptionRepository) Replace(ctx context.Context, jd match.JobDescription) (bool, error) {
	skills, certs, err := marshalJobFields(jd)
	if err != nil {
		return false, err
	}

	affected, err := r.db.Exec(ctx,
		`UPDATE job_descriptions
		 SET title = $3, required_skills = $4, experience_required = $5, education_required = $6, required_certifications = $7, updated_at = $8
		 WHERE id = $1 AND owner_id = $2`,
		jd.ID, jd.OwnerID, jd.Title, skills, jd.ExperienceRequired, jd.EducationRequired, certs, time.Now().UTC(),
	)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *PostgresJobDescriptionRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (match.JobDescription, bool, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+jobDescriptionColumns+` FROM job_descriptions WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	jd, err := scanJobDescription(row)
	if err != nil {
		if isNoRows(err) {
			return match.JobDescription{}, false, nil
		}
		return match.JobDescription{}, false, err
	}
	return jd, true, nil
}

func (r *PostgresJobDescriptionRepository) List(ctx context.Context, ownerID uuid.UUID) ([]match.JobDescription, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+jobDescriptionColumns+` FROM job_descriptions WHERE owner_id = $1 ORDER BY created_at ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]match.JobDescription, 0)
	for rows.Next() {
		jd, err := scanJobDescription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, jd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the JD and, through the FK cascade, every match result
// referencing it in the same atomic statement.
func (r *PostgresJobDescriptionRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) (bool, error) {
	affected, err := r.db.Exec(ctx,
		`DELETE FROM job_descriptions WHERE id = $1 AND owner_id = $2`,
		id, ownerID,
	)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func marshalJobFields(jd match.JobDescription) (skills, certs []byte, err error) {
	if jd.RequiredSkills == nil {
		jd.RequiredSkills = []match.RequiredSkill{}
	}
	if skills, err = json.Marshal(jd.RequiredSkills); err != nil {
		return nil, nil, err
	}
	if certs, err = json.Marshal(sliceOrEmpty(jd.RequiredCertifications)); err != nil {
		return nil, nil, err
	}
	return skills, certs, nil
}

func scanJobDescription(row database.Row) (match.JobDescription, error) {
	var jd match.JobDescription
	var skills, certs []byte

	if err := row.Scan(&jd.ID, &jd.OwnerID, &jd.Title, &skills, &jd.ExperienceRequired, &jd.EducationRequired, &certs, &jd.CreatedAt, &jd.UpdatedAt); err != nil {
		return match.JobDescription{}, err
	}

	if err := json.Unmarshal(skills, &jd.RequiredSkills); err != nil {
		return match.JobDescription{}, err
	}
	if err := json.Unmarshal(certs, &jd.RequiredCertifications); err != nil {
		return match.JobDescription{}, err
	}
	return jd, nil
}
