// Package locking provides named exclusive locks with a canonical
// acquisition order. Stock deductions, restorations and table
// allocation all lock every row they touch through a shared KeyedMutex
// so that overlapping key sets are always acquired in the same order
// and cannot deadlock against each other.
package locking

import (
	"sort"
	"sync"
)

// KeyedMutex hands out one exclusive mutex per key. Mutexes are
// created lazily and kept for the lifetime of the process; the key
// space (ingredients, tables) is small and bounded.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedMutex creates an empty KeyedMutex
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *KeyedMutex) mutexFor(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

// Lock acquires the mutex for a single key and returns its release
// function.
func (k *KeyedMutex) Lock(key string) func() {
	m := k.mutexFor(key)
	m.Lock()
	return m.Unlock
}

// LockAll acquires the mutexes for every distinct key, always in
// ascending key order regardless of the order given. The returned
// release function unlocks in reverse order. Locking an empty key set
// is a no-op.
func (k *KeyedMutex) LockAll(keys []string) func() {
	distinct := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		distinct = append(distinct, key)
	}
	sort.Strings(distinct)

	held := make([]*sync.Mutex, 0, len(distinct))
	for _, key := range distinct {
		m := k.mutexFor(key)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
