package keylock_test

import (
	"sync"
	"testing"

	"github.com/dalemusser/groupwork/internal/app/system/keylock"
)

func TestLock_SerializesSameKey(t *testing.T) {
	var l keylock.Locker
	var wg sync.WaitGroup
	counter := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := l.Lock("group:project")
			defer unlock()
			v := counter
			v++
			counter = v
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter: got %d, want 50", counter)
	}
	if l.Len() != 0 {
		t.Errorf("expected no held keys after release, got %d", l.Len())
	}
}

func TestLock_DistinctKeysDoNotBlock(t *testing.T) {
	var l keylock.Locker

	unlockA := l.Lock("a")
	done := make(chan struct{})
	go func() {
		unlockB := l.Lock("b")
		unlockB()
		close(done)
	}()
	<-done
	unlockA()

	if l.Len() != 0 {
		t.Errorf("expected no held keys, got %d", l.Len())
	}
}
