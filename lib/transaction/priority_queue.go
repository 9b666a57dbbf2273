// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"container/heap"
	"sync"
	"time"

	"github.com/ChainSafe/anoma-go/lib/common"
)

// Item is a wrapper waiting for block inclusion.
type Item struct {
	Wrapper *WrapperTx
	// Hash is the wrapper hash, which keys the queue.
	Hash  common.Hash
	order uint64
	index int
}

type priorityQueue []*Item

func (pq priorityQueue) Len() int { return len(pq) }

// Less orders by fee, highest first, then by insertion order.
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].Wrapper.Fee.Amount == pq[j].Wrapper.Fee.Amount {
		return pq[i].order < pq[j].order
	}
	return pq[i].Wrapper.Fee.Amount > pq[j].Wrapper.Fee.Amount
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x interface{}) {
	item := x.(*Item)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// PriorityQueue orders wrappers for inclusion by decreasing fee.
// Wrappers paying the same fee keep their insertion order.
type PriorityQueue struct {
	pq        priorityQueue
	txs       map[common.Hash]*Item
	nextPush  uint64
	pollDelay time.Duration
	sync.Mutex
}

// NewPriorityQueue creates an empty queue.
func NewPriorityQueue() *PriorityQueue {
	spq := &PriorityQueue{
		txs:       make(map[common.Hash]*Item),
		pollDelay: 10 * time.Millisecond,
	}
	heap.Init(&spq.pq)
	return spq
}

// Push inserts the wrapper keyed by its hash. Pushing a wrapper already
// queued is a no-op.
func (spq *PriorityQueue) Push(wrapperHash common.Hash, w *WrapperTx) {
	spq.Lock()
	defer spq.Unlock()

	if _, has := spq.txs[wrapperHash]; has {
		return
	}

	item := &Item{
		Wrapper: w,
		Hash:    wrapperHash,
		order:   spq.nextPush,
	}
	spq.nextPush++
	heap.Push(&spq.pq, item)
	spq.txs[wrapperHash] = item
	queuedWrappers.Set(float64(len(spq.pq)))
}

// Pop removes and returns the wrapper paying the highest fee,
// or nil if the queue is empty.
func (spq *PriorityQueue) Pop() *Item {
	spq.Lock()
	defer spq.Unlock()
	if spq.pq.Len() == 0 {
		return nil
	}

	item := heap.Pop(&spq.pq).(*Item)
	delete(spq.txs, item.Hash)
	queuedWrappers.Set(float64(len(spq.pq)))
	return item
}

// PopWithTimer pops the best wrapper, waiting for one until the timer fires.
// It returns nil once the timer has fired.
func (spq *PriorityQueue) PopWithTimer(timerCh <-chan time.Time) *Item {
	if item := spq.Pop(); item != nil {
		return item
	}

	ticker := time.NewTicker(spq.pollDelay)
	defer ticker.Stop()
	for {
		select {
		case <-timerCh:
			return nil
		case <-ticker.C:
			if item := spq.Pop(); item != nil {
				return item
			}
		}
	}
}

// Peek returns the wrapper paying the highest fee without removing it,
// or nil if the queue is empty.
func (spq *PriorityQueue) Peek() *Item {
	spq.Lock()
	defer spq.Unlock()
	if spq.pq.Len() == 0 {
		return nil
	}
	return spq.pq[0]
}

// Remove removes the wrapper with the given hash.
func (spq *PriorityQueue) Remove(wrapperHash common.Hash) {
	spq.Lock()
	defer spq.Unlock()

	item, ok := spq.txs[wrapperHash]
	if !ok {
		return
	}
	heap.Remove(&spq.pq, item.index)
	delete(spq.txs, wrapperHash)
	queuedWrappers.Set(float64(len(spq.pq)))
}

// Pending returns the queued wrappers in no particular order.
func (spq *PriorityQueue) Pending() []*Item {
	spq.Lock()
	defer spq.Unlock()

	items := make([]*Item, len(spq.pq))
	copy(items, spq.pq)
	return items
}

// Len returns the number of queued wrappers.
func (spq *PriorityQueue) Len() int {
	spq.Lock()
	defer spq.Unlock()
	return spq.pq.Len()
}
