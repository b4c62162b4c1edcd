package match

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fixed category weights. They always sum to 1.0 and are not configurable
// per JD in this version.
const (
	WeightSkills         = 0.50
	WeightExperience     = 0.30
	WeightEducation      = 0.15
	WeightCertifications = 0.05
)

// TotalScore computes the weighted aggregate of the four category scores.
// Pure: identical inputs always yield the identical output.
func TotalScore(r ScoreRecord) float64 {
	return WeightSkills*r.SkillsScore +
		WeightExperience*r.ExperienceScore +
		WeightEducation*r.EducationScore +
		WeightCertifications*r.CertificationsScore
}

// Finalize turns a validated score record into the match result for one
// (candidate, jd) pair. It recomputes the total from the category scores and
// derives the matched/missing partition over the JD's required-skill set:
// the two sets are disjoint and their union equals the required set exactly,
// regardless of how incomplete the oracle's own missing list was.
func Finalize(rec ScoreRecord, jd JobDescription, version int64, computedAt time.Time) MatchResult {
	required := jd.RequiredSkillNames()

	matchedSet := make(map[string]struct{}, len(rec.SkillsMatched))
	for _, s := range rec.SkillsMatched {
		matchedSet[skillKey(s)] = struct{}{}
	}

	matched := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))
	for _, name := range required {
		if _, ok := matchedSet[skillKey(name)]; ok {
			matched = append(matched, name)
		} else {
			missing = append(missing, name)
		}
	}

	return MatchResult{
		CandidateID:         rec.CandidateID,
		JDID:                jd.ID,
		OwnerID:             jd.OwnerID,
		SkillsScore:         rec.SkillsScore,
		ExperienceScore:     rec.ExperienceScore,
		EducationScore:      rec.EducationScore,
		CertificationsScore: rec.CertificationsScore,
		TotalScore:          TotalScore(rec),
		SkillsMatched:       matched,
		SkillsMissing:       missing,
		Explanations:        rec.Explanations,
		Version:             version,
		ComputedAt:          computedAt,
	}
}

// Less is the canonical ranking order: total score descending, then skills
// score, then experience score, then candidate id ascending. Never depends
// on insertion order or map iteration.
func Less(a, b MatchResult) bool {
	if a.TotalScore != b.TotalScore {
		return a.TotalScore > b.TotalScore
	}
	if a.SkillsScore != b.SkillsScore {
		return a.SkillsScore > b.SkillsScore
	}
	if a.ExperienceScore != b.ExperienceScore {
		return a.ExperienceScore > b.ExperienceScore
	}
	return lessUUID(a.CandidateID, b.CandidateID)
}

// SortResults orders results by the canonical ranking order in place.
func SortResults(results []MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return Less(results[i], results[j])
	})
}

func lessUUID(a, b uuid.UUID) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func skillKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
