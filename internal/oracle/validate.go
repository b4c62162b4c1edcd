package oracle

import (
	"strings"

	"talent-match/internal/domain/match"
)

// RawScore is the lenient decode target for whatever JSON the model
// produced. Score fields are pointers so that absence can be told apart
// from zero.
type RawScore struct {
	SkillsScore               *float64 `json:"skills_score"`
	ExperienceScore           *float64 `json:"experience_score"`
	EducationScore            *float64 `json:"education_score"`
	CertificationsScore       *float64 `json:"certifications_score"`
	SkillsMatched             []string `json:"skills_matched"`
	SkillsMissing             []string `json:"skills_missing"`
	SkillsExplanation         string   `json:"skills_explanation"`
	ExperienceExplanation     string   `json:"experience_explanation"`
	EducationExplanation      string   `json:"education_explanation"`
	CertificationsExplanation string   `json:"certifications_explanation"`
}

// ValidateRecord normalizes a raw model response into a score record the
// rest of the system can trust. Out-of-range scores are clamped, never
// rejected, to tolerate model overshoot. Skill tokens not present in the
// JD's required-skill set are dropped and returned so the caller can warn;
// a phantom skill is never inserted. Only structurally missing category
// scores reject the record.
func ValidateRecord(raw RawScore, jd match.JobDescription) (match.ScoreRecord, []string, error) {
	var missing []string
	read := func(name string, v *float64) float64 {
		if v == nil {
			missing = append(missing, name)
			return 0
		}
		return clampScore(*v)
	}

	rec := match.ScoreRecord{
		SkillsScore:         read("skills_score", raw.SkillsScore),
		ExperienceScore:     read("experience_score", raw.ExperienceScore),
		EducationScore:      read("education_score", raw.EducationScore),
		CertificationsScore: read("certifications_score", raw.CertificationsScore),
		Explanations: match.CategoryExplanations{
			Skills:         strings.TrimSpace(raw.SkillsExplanation),
			Experience:     strings.TrimSpace(raw.ExperienceExplanation),
			Education:      strings.TrimSpace(raw.EducationExplanation),
			Certifications: strings.TrimSpace(raw.CertificationsExplanation),
		},
	}

	if len(missing) > 0 {
		return match.ScoreRecord{}, nil, &ValidationError{Missing: missing}
	}

	required := make(map[string]string, len(jd.RequiredSkills))
	for _, s := range jd.RequiredSkills {
		required[skillKey(s.Name)] = s.Name
	}

	var dropped []string
	rec.SkillsMatched, dropped = intersectSkills(raw.SkillsMatched, required, dropped)
	rec.SkillsMissing, dropped = intersectSkills(raw.SkillsMissing, required, dropped)

	return rec, dropped, nil
}

// intersectSkills keeps tokens recognized in the JD's required-skill set,
// canonicalized to the JD's spelling, deduplicated, in JD-agnostic response
// order. Unrecognized tokens accumulate into dropped.
func intersectSkills(tokens []string, required map[string]string, dropped []string) ([]string, []string) {
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		key := skillKey(t)
		if key == "" {
			continue
		}
		canonical, ok := required[key]
		if !ok {
			dropped = append(dropped, strings.TrimSpace(t))
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, canonical)
	}
	return out, dropped
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func skillKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
