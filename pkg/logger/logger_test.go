package logger

import (
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestGetLoggerFallbackIsShared(t *testing.T) {
	SetLogger(nil)
	t.Cleanup(func() { SetLogger(nil) })

	const workers = 8
	got := make([]*zap.Logger, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = GetLogger()
		}(i)
	}
	wg.Wait()

	for i, l := range got {
		if l == nil || l != got[0] {
			t.Fatalf("worker %d got a different fallback logger", i)
		}
	}
}

func TestSetLoggerOverridesFallback(t *testing.T) {
	nop := zap.NewNop()
	SetLogger(nop)
	t.Cleanup(func() { SetLogger(nil) })

	if GetLogger() != nop {
		t.Error("GetLogger should return the logger passed to SetLogger")
	}
}
