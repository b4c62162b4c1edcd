package match

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCandidateIncomplete = errors.New("candidate record incomplete")
	ErrJobIncomplete       = errors.New("job description record incomplete")
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

// Candidate is the normalized profile supplied by the ingestion collaborator.
// It is immutable once stored except by replace-by-id.
type Candidate struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Name           string
	Email          string
	Skills         []string
	Experience     []ExperienceEntry
	Education      []EducationEntry
	Certifications []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate rejects a candidate missing required fields. Partial records are
// never stored.
func (c Candidate) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrCandidateIncomplete
	}
	if len(c.Skills) == 0 {
		return ErrCandidateIncomplete
	}
	for _, s := range c.Skills {
		if strings.TrimSpace(s) == "" {
			return ErrCandidateIncomplete
		}
	}
	return nil
}

// RequiredSkill is one JD skill token, optionally tagged with an importance
// hint (0 means untagged).
type RequiredSkill struct {
	Name       string `json:"name"`
	Importance int    `json:"importance,omitempty"`
}

type JobDescription struct {
	ID                     uuid.UUID
	OwnerID                uuid.UUID
	Title                  string
	RequiredSkills         []RequiredSkill
	ExperienceRequired     string
	EducationRequired      string
	RequiredCertifications []string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (jd JobDescription) Validate() error {
	if strings.TrimSpace(jd.Title) == "" {
		return ErrJobIncomplete
	}
	if len(jd.RequiredSkills) == 0 {
		return ErrJobIncomplete
	}
	for _, s := range jd.RequiredSkills {
		if strings.TrimSpace(s.Name) == "" {
			return ErrJobIncomplete
		}
	}
	return nil
}

// RequiredSkillNames returns the JD skill tokens in declaration order.
func (jd JobDescription) RequiredSkillNames() []string {
	names := make([]string, 0, len(jd.RequiredSkills))
	for _, s := range jd.RequiredSkills {
		names = append(names, s.Name)
	}
	return names
}

type CategoryExplanations struct {
	Skills         string `json:"skills"`
	Experience     string `json:"experience"`
	Education      string `json:"education"`
	Certifications string `json:"certifications"`
}

// ScoreRecord is a validated oracle response for one (candidate, jd) pair.
// Category scores are in [0,100]; SkillsMatched/SkillsMissing contain only
// tokens from the JD's required-skill set, though the partition may still be
// incomplete until Finalize derives it.
type ScoreRecord struct {
	CandidateID         uuid.UUID
	SkillsScore         float64
	ExperienceScore     float64
	EducationScore      float64
	CertificationsScore float64
	SkillsMatched       []string
	SkillsMissing       []string
	Explanations        CategoryExplanations
}

// MatchResult is the single current scoring outcome for a (candidate, jd)
// pair. Version increases on every recompute; the store rejects writes that
// do not advance it.
type MatchResult struct {
	CandidateID         uuid.UUID
	JDID                uuid.UUID
	OwnerID             uuid.UUID
	SkillsScore         float64
	ExperienceScore     float64
	EducationScore      float64
	CertificationsScore float64
	TotalScore          float64
	SkillsMatched       []string
	SkillsMissing       []string
	Explanations        CategoryExplanations
	Version             int64
	ComputedAt          time.Time
}
