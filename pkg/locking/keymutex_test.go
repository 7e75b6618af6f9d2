package locking

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedMutex_LockSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("flour")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestKeyedMutex_LockAllOverlappingSetsDoNotDeadlock(t *testing.T) {
	km := NewKeyedMutex()

	// Two goroutines lock overlapping sets given in opposite order.
	// Canonical ordering inside LockAll must prevent a deadlock.
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			unlock := km.LockAll([]string{"cheese", "flour", "tomato"})
			time.Sleep(time.Microsecond)
			unlock()
		}()
		go func() {
			defer wg.Done()
			unlock := km.LockAll([]string{"tomato", "cheese"})
			time.Sleep(time.Microsecond)
			unlock()
		}()
	}
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("deadlock: LockAll goroutines did not finish")
	}
}

func TestKeyedMutex_LockAllDeduplicatesKeys(t *testing.T) {
	km := NewKeyedMutex()

	unlock := km.LockAll([]string{"flour", "flour", "flour"})
	// Would self-deadlock here if duplicates were locked twice.
	unlock()
}

func TestKeyedMutex_LockAllEmpty(t *testing.T) {
	km := NewKeyedMutex()
	unlock := km.LockAll(nil)
	unlock()
}
