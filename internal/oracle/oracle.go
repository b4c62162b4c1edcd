// Package oracle defines the contract with the external AI scoring service.
// The service is treated as an untrusted, latency-variable black box: the
// client turns one (candidate, jd) pair into a validated score record or a
// typed failure, and the validator is the only place that trusts anything
// about the response shape.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"talent-match/internal/domain/match"
)

type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindRateLimited ErrorKind = "rate_limited"
	KindUnavailable ErrorKind = "unavailable"
	KindMalformed   ErrorKind = "malformed"
)

// Error is a scoring failure after the client's retry budget is exhausted,
// scoped to a single candidate.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("oracle %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("oracle %s", e.Kind)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// ValidationError marks a response that is structurally incomplete. It is
// never retried: the same input is unlikely to fix a missing field.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	return "oracle response missing fields: " + strings.Join(e.Missing, ", ")
}

// FailureKind maps an error from a scoring attempt to the reason kind
// reported in a batch outcome.
func FailureKind(err error) string {
	var oerr *Error
	if errors.As(err, &oerr) {
		return string(oerr.Kind)
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return "missing_field"
	}
	return "internal"
}

// Scorer performs one scoring round-trip for a normalized pair. The caller
// guarantees candidate and jd pass their Validate checks before invocation.
type Scorer interface {
	Score(ctx context.Context, candidate match.Candidate, jd match.JobDescription) (match.ScoreRecord, error)
}
