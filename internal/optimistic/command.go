// Package optimistic generalizes the "apply locally, confirm remotely,
// reconcile or roll back" pattern used for reaction counters and similar
// click-to-count interactions.
package optimistic

import "context"

// Command describes one speculative state transition over S.
//
// Apply produces the optimistic state shown immediately. Confirm performs
// the real operation and returns the authoritative state. The two are kept
// separate so the optimistic value is never mistaken for a confirmed one.
type Command[S any] struct {
	Apply   func(S) S
	Confirm func(context.Context) (S, error)
}

// Result carries both sides of the transition. When RolledBack is set the
// caller should display Confirmed (the pre-command state) and may surface
// Err as a transient notice.
type Result[S any] struct {
	Optimistic S
	Confirmed  S
	RolledBack bool
	Err        error
}

// Run executes cmd against current: the optimistic state is computed first,
// then Confirm is dispatched. On success Confirmed holds the authoritative
// state; on failure the result is rolled back to current.
func Run[S any](ctx context.Context, current S, cmd Command[S]) Result[S] {
	res := Result[S]{Optimistic: cmd.Apply(current)}

	confirmed, err := cmd.Confirm(ctx)
	if err != nil {
		res.Confirmed = current
		res.RolledBack = true
		res.Err = err
		return res
	}
	res.Confirmed = confirmed
	return res
}
