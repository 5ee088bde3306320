package txm

import (
	"context"
	"testing"
)

func TestAfterCommitOutsideUnitOfWorkRunsImmediately(t *testing.T) {
	ran := false
	AfterCommit(context.Background(), func() { ran = true })
	if !ran {
		t.Fatal("expected hook to run immediately")
	}
}

func TestAfterCommitRunsOnceOnCommit(t *testing.T) {
	ctx, state := Enter(context.Background(), nil)
	calls := 0
	AfterCommit(ctx, func() { calls++ })
	AfterCommit(ctx, func() { calls++ })
	if calls != 0 {
		t.Fatalf("hooks ran before commit")
	}
	state.Committed()
	state.Committed()
	if calls != 2 {
		t.Fatalf("expected 2 hook calls, got %d", calls)
	}
	if !Active(ctx) {
		t.Fatal("expected ctx to report an active unit of work")
	}
}
