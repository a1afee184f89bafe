// Package store holds game sessions between circuit creation and answer
// submission. Implementations must make the unanswered-to-answered transition
// atomic per session id: the first successful writer records the result, and
// every later submission observes that stored result unchanged.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/archassist/archgames-backend/internal/types"
)

var ErrSessionNotFound = errors.New("game session not found")

type SessionStore interface {
	// Create stores a new session under its id.
	Create(ctx context.Context, session *types.GameSession) error

	// Get returns the session or ErrSessionNotFound.
	Get(ctx context.Context, id string) (*types.GameSession, error)

	// RecordAnswer attempts the answered transition. The bool reports whether
	// this call won it; when false, the returned session carries the result a
	// previous submission already recorded.
	RecordAnswer(ctx context.Context, id string, answer interface{}, result types.EvaluationResult) (*types.GameSession, bool, error)

	// Sweep removes sessions older than maxAge and returns how many went.
	// Stores with native expiry may implement this as a no-op.
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)
}

// cloneSession gives callers their own copy so store internals cannot be
// mutated from outside. Circuit payloads are never modified after creation,
// so sharing their backing arrays is safe.
func cloneSession(s *types.GameSession) *types.GameSession {
	if s == nil {
		return nil
	}
	out := *s
	if s.Result != nil {
		r := *s.Result
		out.Result = &r
	}
	if s.AnsweredAt != nil {
		at := *s.AnsweredAt
		out.AnsweredAt = &at
	}
	return &out
}
