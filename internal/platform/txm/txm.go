// Package txm carries a unit of work through context.Context so repositories
// can join the caller's transaction without changing their signatures.
package txm

import (
	"context"
	"sync"

	"github.com/jmoiron/sqlx"
)

// Manager runs fn as one all-or-nothing unit of work. Nested calls join the
// outer unit of work instead of opening a new one.
type Manager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type stateKey struct{}

// State is the per unit of work bookkeeping stored in the context.
type State struct {
	tx    *sqlx.Tx
	mu    sync.Mutex
	hooks []func()
}

// Enter attaches a fresh State to ctx. tx is nil for stores without SQL
// transactions.
func Enter(ctx context.Context, tx *sqlx.Tx) (context.Context, *State) {
	s := &State{tx: tx}
	return context.WithValue(ctx, stateKey{}, s), s
}

func FromContext(ctx context.Context) (*State, bool) {
	s, ok := ctx.Value(stateKey{}).(*State)
	return s, ok
}

// Active reports whether ctx is inside a unit of work.
func Active(ctx context.Context) bool {
	_, ok := FromContext(ctx)
	return ok
}

func (s *State) Tx() *sqlx.Tx {
	return s.tx
}

// Committed runs the registered after-commit hooks once.
func (s *State) Committed() {
	s.mu.Lock()
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// AfterCommit defers fn until the surrounding unit of work commits. Outside a
// unit of work fn runs immediately. Hooks are dropped on rollback.
func AfterCommit(ctx context.Context, fn func()) {
	s, ok := FromContext(ctx)
	if !ok {
		fn()
		return
	}
	s.mu.Lock()
	s.hooks = append(s.hooks, fn)
	s.mu.Unlock()
}
