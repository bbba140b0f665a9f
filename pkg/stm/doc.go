/*
Package stm provides software transactional memory primitives for honeycomb-go.

Every mutation of map topology (β images, unused-dart flags, attribute
slots) travels through a Transaction so that concurrent sew/unsew calls can
run speculatively and only pay for synchronization at commit time.

# Architecture

The implementation follows a TL2-style optimistic-concurrency scheme: a
global version clock, a versioned write-lock per variable, and per-txn
read/write sets validated at commit.

	┌──────────────────── STM SUBSTRATE ────────────────────────┐
	│                                                            │
	│  ┌────────────────────────────────────────────┐          │
	│  │            Global Version Clock             │          │
	│  │  - monotonically increasing uint64          │          │
	│  │  - bumped once per committing write txn     │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │              TVar[T]                        │          │
	│  │  - versioned write lock (1 bit + 63 bits)   │          │
	│  │  - current value                            │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │             Transaction                     │          │
	│  │  - read version snapshot                    │          │
	│  │  - read set (var -> observed version)       │          │
	│  │  - write set (var -> pending value)         │          │
	│  └──────────────────┬─────────────────────────┘          │
	│                     │                                      │
	│  ┌──────────────────▼─────────────────────────┐          │
	│  │        Atomically / AtomicallyWithErr        │          │
	│  │  - run closure speculatively                │          │
	│  │  - lock write set, validate read set         │          │
	│  │  - commit or restart                        │          │
	│  │  - Retry() blocks until the next commit      │          │
	│  └────────────────────────────────────────────┘           │
	└────────────────────────────────────────────────────────────┘

# Suspension

A transaction only ever suspends at an explicit call to Retry inside the
closure; it blocks until some other transaction commits (any commit wakes
it, not only one that wrote a variable it has read), then re-runs the
closure from scratch. Ordinary Read/Write calls never block: a Read of a
variable that another transaction is committing proceeds, and validation
at commit restarts the attempt if that commit lands.

# Cancellation

Abort(err) unwinds the closure without applying any part of its write set
and returns err to the caller of AtomicallyWithErr.
*/
package stm
