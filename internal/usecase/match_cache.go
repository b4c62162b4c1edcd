package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MatchCache is the best-effort cache in front of the ranked read path.
// Implementations must degrade to no-ops when the backing store is down.
type MatchCache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	InvalidateMatches(ctx context.Context, jdID string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

func TopMatchesCacheKey(jdID uuid.UUID, minScore float64, limit int) string {
	return fmt.Sprintf("matches:top:%s:%g:%d", jdID, minScore, limit)
}
