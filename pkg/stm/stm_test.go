package stm

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicallyCommitsWrite(t *testing.T) {
	v := NewTVar(1)
	Atomically(func(tx *Transaction) {
		v.Write(tx, 42)
	})
	assert.Equal(t, 42, v.AtomicRead())
}

func TestReplaceReturnsPrior(t *testing.T) {
	v := NewTVar("a")
	var old string
	Atomically(func(tx *Transaction) {
		old = v.Replace(tx, "b")
	})
	assert.Equal(t, "a", old)
	assert.Equal(t, "b", v.AtomicRead())
}

func TestRetryBlocksUntilChange(t *testing.T) {
	v := NewTVar(0)
	done := make(chan struct{})

	go func() {
		Atomically(func(tx *Transaction) {
			if v.Read(tx) == 0 {
				tx.Retry()
			}
		})
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-done:
		t.Fatal("transaction returned before the variable changed")
	default:
	}

	Atomically(func(tx *Transaction) { v.Write(tx, 1) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("retry never woke up after the variable changed")
	}
}

func TestAbortPropagatesErrorWithoutCommitting(t *testing.T) {
	v := NewTVar(10)
	sentinel := errors.New("boom")

	err := AtomicallyWithErr(func(tx *Transaction) error {
		v.Write(tx, 99)
		tx.Abort(sentinel)
		return nil
	})

	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 10, v.AtomicRead())
}

func TestAtomicallyWithControlRetriesOnDemand(t *testing.T) {
	v := NewTVar(0)
	attempts := 0
	retryable := errors.New("contention")

	err := AtomicallyWithControl(func(tx *Transaction) error {
		attempts++
		cur := v.Read(tx)
		if attempts < 3 {
			return retryable
		}
		v.Write(tx, cur+1)
		return nil
	}, func(err error) Decision {
		if errors.Is(err, retryable) {
			return DecisionRetry
		}
		return DecisionAbort
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 1, v.AtomicRead())
}

func TestConcurrentIncrementsAreSerializable(t *testing.T) {
	v := NewTVar(0)
	var wg sync.WaitGroup
	const n = 200
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			Atomically(func(tx *Transaction) {
				v.Write(tx, v.Read(tx)+1)
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, n, v.AtomicRead())
}
