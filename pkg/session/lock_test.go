package session

import (
	"context"
	"fmt"
	"testing"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(func(context.Context, string) (int, error) { return 0, nil })
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_ = mgr.Do(ctx, sid, func(context.Context, int) error { return nil })
		_ = mgr.Delete(ctx, sid)
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
	if n := len(mgr.sessions); n != 0 {
		t.Errorf("%d sessions remaining after Delete", n)
	}
}
