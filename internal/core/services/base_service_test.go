package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWait = time.Second
	testTick = 5 * time.Millisecond
)

func TestKeyedLocks_EvictsOnRelease(t *testing.T) {
	locks := newKeyedLocks()

	unlock := locks.acquire("tenant-1/txn-1")
	assert.Equal(t, 1, locks.size())

	unlock()
	assert.Equal(t, 0, locks.size(), "released keys must be evicted")
}

func TestKeyedLocks_SharedEntryWhileContended(t *testing.T) {
	locks := newKeyedLocks()

	unlock := locks.acquire("tenant-1/txn-1")

	waiting := make(chan struct{})
	released := make(chan struct{})
	go func() {
		close(waiting)
		inner := locks.acquire("tenant-1/txn-1")
		inner()
		close(released)
	}()

	<-waiting
	// The contending goroutine shares the held entry instead of adding one.
	require.Eventually(t, func() bool { return locks.size() == 1 }, testWait, testTick)

	unlock()
	<-released
	assert.Equal(t, 0, locks.size())
}

func TestKeyedLocks_SerializesPerKey(t *testing.T) {
	locks := newKeyedLocks()

	const goroutines = 16
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.acquire("shared")
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines, counter)
	assert.Equal(t, 0, locks.size())
}
