package store

import (
	"context"
)

// State tracks one optimistic write through its lifecycle:
// IDLE -> APPLIED_LOCALLY -> CONFIRMED | ROLLED_BACK.
type State int

const (
	Idle State = iota
	AppliedLocally
	Confirmed
	RolledBack
)

func (s State) String() string {
	switch s {
	case AppliedLocally:
		return "applied_locally"
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled_back"
	default:
		return "idle"
	}
}

// Mutation is one optimistic write over an entity of type S. The local
// collection is mutated before the network round-trip so the surface
// reflects the action immediately; on a failed commit the exact
// pre-mutation snapshot is restored. A mutation is never left partially
// applied.
type Mutation[S any] struct {
	Fetch   func() S                    // snapshot the target entity
	Mutate  func()                      // apply the local change
	Restore func(S)                     // put the snapshot back
	Commit  func(context.Context) error // the remote call
}

// Run executes the mutation and reports the terminal state. The commit
// error, if any, is returned untouched so callers can distinguish the
// failure taxonomy. Failed commits are not retried.
func Run[S any](ctx context.Context, m Mutation[S]) (State, error) {
	snapshot := m.Fetch()
	m.Mutate()
	if err := m.Commit(ctx); err != nil {
		m.Restore(snapshot)
		return RolledBack, err
	}
	return Confirmed, nil
}
