// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/storage"
)

var (
	// ErrUnknownTransaction is returned when updating a transaction the pool does not track.
	ErrUnknownTransaction = errors.New("unknown transaction")
	// ErrInvalidTransition is returned when a status update goes backwards.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// TrackedTx follows a wrapped transaction from broadcast to execution.
type TrackedTx struct {
	// WrapperHash keys inclusion of the wrapper in a block.
	WrapperHash common.Hash
	// PayloadHash keys execution results of the inner transaction.
	PayloadHash common.Hash
	Status      Status
	// Height is the height of the last status update after inclusion.
	Height storage.BlockHeight
}

// Pool tracks wrapped transactions under both of their hashes.
// Re-wrapping an inner transaction, for example to bump its fee, tracks
// several wrappers under one payload hash.
type Pool struct {
	byWrapper map[common.Hash]*TrackedTx
	// byPayload holds the wrapper hashes of a payload in insertion order.
	byPayload map[common.Hash][]common.Hash
	mu        sync.RWMutex
}

// NewPool returns a new empty Pool
func NewPool() *Pool {
	return &Pool{
		byWrapper: make(map[common.Hash]*TrackedTx),
		byPayload: make(map[common.Hash][]common.Hash),
	}
}

// Transactions returns a copy of all the tracked transactions.
func (p *Pool) Transactions() []TrackedTx {
	p.mu.RLock()
	defer p.mu.RUnlock()

	txs := make([]TrackedTx, 0, len(p.byWrapper))
	for _, tx := range p.byWrapper {
		txs = append(txs, *tx)
	}
	return txs
}

// Insert starts tracking a pending wrapped transaction.
// Inserting a wrapper hash already tracked is a no-op.
func (p *Pool) Insert(wrapperHash, payloadHash common.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, has := p.byWrapper[wrapperHash]; has {
		return
	}
	tx := &TrackedTx{
		WrapperHash: wrapperHash,
		PayloadHash: payloadHash,
		Status:      Pending,
	}
	p.byWrapper[wrapperHash] = tx
	p.byPayload[payloadHash] = append(p.byPayload[payloadHash], wrapperHash)
	trackedTransactions.WithLabelValues(Pending.String()).Inc()
}

// ByWrapperHash returns the transaction tracked under the wrapper hash.
func (p *Pool) ByWrapperHash(h common.Hash) (tx TrackedTx, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	tracked, ok := p.byWrapper[h]
	if !ok {
		return tx, false
	}
	return *tracked, true
}

// ByPayloadHash returns the transaction tracked under the payload hash.
// When several wrappers carry the payload, the included one is returned,
// otherwise the most recent one still live.
func (p *Pool) ByPayloadHash(h common.Hash) (tx TrackedTx, ok bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	tracked := p.payloadTx(h)
	if tracked == nil {
		return tx, false
	}
	return *tracked, true
}

// payloadTx must be called with the lock held.
func (p *Pool) payloadTx(h common.Hash) *TrackedTx {
	wrappers := p.byPayload[h]
	var latest, live *TrackedTx
	for i := len(wrappers) - 1; i >= 0; i-- {
		tx := p.byWrapper[wrappers[i]]
		switch {
		case tx.Status == InBlock || tx.Status == Applied || tx.Status == Rejected:
			return tx
		case live == nil && tx.Status != Dropped:
			live = tx
		}
		if latest == nil {
			latest = tx
		}
	}
	if live != nil {
		return live
	}
	return latest
}

// MarkBroadcast records that the wrapper has been sent.
func (p *Pool) MarkBroadcast(wrapperHash common.Hash) error {
	return p.transition(p.byWrapperTx, wrapperHash, Broadcast, 0)
}

// MarkInBlock records the inclusion of the wrapper at the given height.
func (p *Pool) MarkInBlock(wrapperHash common.Hash, height storage.BlockHeight) error {
	return p.transition(p.byWrapperTx, wrapperHash, InBlock, height)
}

// MarkDropped records that the wrapper will never be included.
func (p *Pool) MarkDropped(wrapperHash common.Hash) error {
	return p.transition(p.byWrapperTx, wrapperHash, Dropped, 0)
}

// MarkExecuted records the execution result of the inner transaction on
// the wrapper ByPayloadHash returns.
func (p *Pool) MarkExecuted(payloadHash common.Hash, height storage.BlockHeight, accepted bool) error {
	status := Rejected
	if accepted {
		status = Applied
	}
	return p.transition(p.payloadTx, payloadHash, status, height)
}

func (p *Pool) byWrapperTx(h common.Hash) *TrackedTx {
	return p.byWrapper[h]
}

func (p *Pool) transition(lookup func(common.Hash) *TrackedTx, h common.Hash,
	status Status, height storage.BlockHeight) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	tx := lookup(h)
	if tx == nil {
		return fmt.Errorf("%w: %s", ErrUnknownTransaction, h)
	}
	if tx.Status.IsFinal() || status <= tx.Status ||
		(status == Dropped && tx.Status == InBlock) {
		return fmt.Errorf("%w: from %s to %s", ErrInvalidTransition, tx.Status, status)
	}

	trackedTransactions.WithLabelValues(tx.Status.String()).Dec()
	trackedTransactions.WithLabelValues(status.String()).Inc()
	tx.Status = status
	if height > tx.Height {
		tx.Height = height
	}
	return nil
}

// Remove stops tracking the transaction with the given wrapper hash.
func (p *Pool) Remove(wrapperHash common.Hash) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tx, ok := p.byWrapper[wrapperHash]
	if !ok {
		return
	}
	delete(p.byWrapper, wrapperHash)

	wrappers := p.byPayload[tx.PayloadHash]
	for i, h := range wrappers {
		if h == wrapperHash {
			wrappers = append(wrappers[:i:i], wrappers[i+1:]...)
			break
		}
	}
	if len(wrappers) == 0 {
		delete(p.byPayload, tx.PayloadHash)
	} else {
		p.byPayload[tx.PayloadHash] = wrappers
	}
	trackedTransactions.WithLabelValues(tx.Status.String()).Dec()
}

// Len returns the number of tracked transactions.
func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byWrapper)
}
