package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-match/internal/domain/match"
	"talent-match/internal/oracle"

	"github.com/google/uuid"
)

type stubGenerator struct {
	responses []string
	errs      []error
	calls     int
}

func (s *stubGenerator) GenerateContent(context.Context, string) (string, error) {
	i := s.calls
	s.calls++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	var resp string
	if i < len(s.responses) {
		resp = s.responses[i]
	}
	return resp, err
}

const validResponse = `{
	"skills_score": 80,
	"experience_score": 60,
	"education_score": 90,
	"certifications_score": 40,
	"skills_matched": ["Go"],
	"skills_missing": ["PostgreSQL"],
	"skills_explanation": "strong overlap",
	"experience_explanation": "relevant roles",
	"education_explanation": "degree fits",
	"certifications_explanation": "none listed"
}`

func testPair() (match.Candidate, match.JobDescription) {
	cand := match.Candidate{ID: uuid.New(), Name: "Ana", Skills: []string{"Go"}}
	jd := match.JobDescription{
		ID:    uuid.New(),
		Title: "Backend Engineer",
		RequiredSkills: []match.RequiredSkill{
			{Name: "Go"}, {Name: "PostgreSQL"},
		},
	}
	return cand, jd
}

func newTestScorer(g contentGenerator) *Scorer {
	return NewScorer(g, nil, ScorerOptions{
		MaxAttempts:    3,
		RequestTimeout: time.Second,
		BackoffBase:    time.Millisecond,
	})
}

func TestScore_Success(t *testing.T) {
	cand, jd := testPair()
	gen := &stubGenerator{responses: []string{validResponse}}

	rec, err := newTestScorer(gen).Score(context.Background(), cand, jd)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.CandidateID != cand.ID {
		t.Fatalf("record not bound to candidate")
	}
	if rec.SkillsScore != 80 || rec.ExperienceScore != 60 {
		t.Fatalf("unexpected scores: %+v", rec)
	}
	if len(rec.SkillsMatched) != 1 || rec.SkillsMatched[0] != "Go" {
		t.Fatalf("unexpected matched: %v", rec.SkillsMatched)
	}
	if gen.calls != 1 {
		t.Fatalf("expected 1 call, got %d", gen.calls)
	}
}

func TestScore_FencedJSON(t *testing.T) {
	cand, jd := testPair()
	gen := &stubGenerator{responses: []string{"```json\n" + validResponse + "\n```"}}

	rec, err := newTestScorer(gen).Score(context.Background(), cand, jd)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.EducationScore != 90 {
		t.Fatalf("unexpected education score: %v", rec.EducationScore)
	}
}

func TestScore_RetriesTransientFailure(t *testing.T) {
	cand, jd := testPair()
	gen := &stubGenerator{
		responses: []string{"", validResponse},
		errs:      []error{context.DeadlineExceeded, nil},
	}

	rec, err := newTestScorer(gen).Score(context.Background(), cand, jd)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.SkillsScore != 80 {
		t.Fatalf("unexpected score after retry: %v", rec.SkillsScore)
	}
	if gen.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", gen.calls)
	}
}

func TestScore_ExhaustsRetryBudget(t *testing.T) {
	cand, jd := testPair()
	gen := &stubGenerator{
		errs: []error{context.DeadlineExceeded, context.DeadlineExceeded, context.DeadlineExceeded},
	}

	_, err := newTestScorer(gen).Score(context.Background(), cand, jd)
	if err == nil {
		t.Fatalf("expected error after exhausted retries")
	}
	if oracle.FailureKind(err) != "timeout" {
		t.Fatalf("expected timeout kind, got %s", oracle.FailureKind(err))
	}
	if gen.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", gen.calls)
	}
}

func TestScore_ValidationFailureNotRetried(t *testing.T) {
	cand, jd := testPair()
	gen := &stubGenerator{responses: []string{`{"skills_score": 80}`}}

	_, err := newTestScorer(gen).Score(context.Background(), cand, jd)

	var verr *oracle.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if gen.calls != 1 {
		t.Fatalf("validation failure must not be retried, got %d calls", gen.calls)
	}
}

func TestScore_MalformedResponseRetried(t *testing.T) {
	cand, jd := testPair()
	gen := &stubGenerator{responses: []string{"not json at all", validResponse}}

	rec, err := newTestScorer(gen).Score(context.Background(), cand, jd)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if rec.SkillsScore != 80 {
		t.Fatalf("unexpected score after retry: %v", rec.SkillsScore)
	}
	if gen.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", gen.calls)
	}
}

func TestScore_MalformedExhaustsBudget(t *testing.T) {
	cand, jd := testPair()
	gen := &stubGenerator{responses: []string{"garbage", "garbage", "garbage"}}

	_, err := newTestScorer(gen).Score(context.Background(), cand, jd)
	if oracle.FailureKind(err) != "malformed" {
		t.Fatalf("expected malformed kind, got %s", oracle.FailureKind(err))
	}
	if gen.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", gen.calls)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for i, c := range cases {
		if got := extractJSON(c.in); got != c.want {
			t.Fatalf("case %d: expected %q, got %q", i, c.want, got)
		}
	}
}
