package usecase

import "errors"

var (
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInternal               = errors.New("internal error")
	ErrCandidateNotFound      = errors.New("candidate not found")
	ErrJobDescriptionNotFound = errors.New("job description not found")
	ErrNoCandidates           = errors.New("no candidates to match")
	ErrInvalidRecord          = errors.New("record missing required fields")
)
