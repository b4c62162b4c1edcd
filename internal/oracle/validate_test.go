package oracle

import (
	"errors"
	"testing"

	"talent-match/internal/domain/match"
)

func f(v float64) *float64 { return &v }

func testJD() match.JobDescription {
	return match.JobDescription{
		Title: "Backend Engineer",
		RequiredSkills: []match.RequiredSkill{
			{Name: "Go"}, {Name: "PostgreSQL"}, {Name: "Redis"},
		},
	}
}

func TestValidateRecord_ClampsOutOfRangeScores(t *testing.T) {
	raw := RawScore{
		SkillsScore:         f(150),
		ExperienceScore:     f(-10),
		EducationScore:      f(100),
		CertificationsScore: f(0),
	}

	rec, _, err := ValidateRecord(raw, testJD())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.SkillsScore != 100 {
		t.Fatalf("expected skills clamped to 100, got %v", rec.SkillsScore)
	}
	if rec.ExperienceScore != 0 {
		t.Fatalf("expected experience clamped to 0, got %v", rec.ExperienceScore)
	}
}

func TestValidateRecord_DropsPhantomSkills(t *testing.T) {
	raw := RawScore{
		SkillsScore:         f(80),
		ExperienceScore:     f(50),
		EducationScore:      f(50),
		CertificationsScore: f(50),
		SkillsMatched:       []string{"go", "Blockchain", "PostgreSQL"},
		SkillsMissing:       []string{"redis", "Quantum Computing"},
	}

	rec, dropped, err := ValidateRecord(raw, testJD())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(rec.SkillsMatched) != 2 || rec.SkillsMatched[0] != "Go" || rec.SkillsMatched[1] != "PostgreSQL" {
		t.Fatalf("unexpected matched: %v", rec.SkillsMatched)
	}
	if len(rec.SkillsMissing) != 1 || rec.SkillsMissing[0] != "Redis" {
		t.Fatalf("unexpected missing: %v", rec.SkillsMissing)
	}
	if len(dropped) != 2 {
		t.Fatalf("expected 2 dropped tokens, got %v", dropped)
	}
}

func TestValidateRecord_DeduplicatesTokens(t *testing.T) {
	raw := RawScore{
		SkillsScore:         f(80),
		ExperienceScore:     f(50),
		EducationScore:      f(50),
		CertificationsScore: f(50),
		SkillsMatched:       []string{"Go", "go", "GO"},
	}

	rec, _, err := ValidateRecord(raw, testJD())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(rec.SkillsMatched) != 1 {
		t.Fatalf("expected deduplicated matched set, got %v", rec.SkillsMatched)
	}
}

func TestValidateRecord_MissingScoreRejected(t *testing.T) {
	raw := RawScore{
		SkillsScore:     f(80),
		ExperienceScore: f(50),
		// education_score and certifications_score absent
	}

	_, _, err := ValidateRecord(raw, testJD())

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Missing) != 2 {
		t.Fatalf("expected 2 missing fields, got %v", verr.Missing)
	}
	if FailureKind(err) != "missing_field" {
		t.Fatalf("expected missing_field kind, got %s", FailureKind(err))
	}
}

func TestFailureKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NewError(KindTimeout, errors.New("deadline")), "timeout"},
		{NewError(KindRateLimited, errors.New("429")), "rate_limited"},
		{NewError(KindUnavailable, errors.New("503")), "unavailable"},
		{NewError(KindMalformed, errors.New("bad json")), "malformed"},
		{&ValidationError{Missing: []string{"skills_score"}}, "missing_field"},
		{errors.New("boom"), "internal"},
	}
	for i, c := range cases {
		if got := FailureKind(c.err); got != c.want {
			t.Fatalf("case %d: expected %s, got %s", i, c.want, got)
		}
	}
}
