// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package gossip

import (
	"sync"

	"github.com/ChainSafe/anoma-go/lib/common"

	"github.com/OneOfOne/xxhash"
	bloomfilter "github.com/holiman/bloomfilter/v2"
)

// bloomHashFunctions is the number of hash functions of the seen filter.
const bloomHashFunctions = 4

// seenFilter records the hashes of intents already handled.
// - If it says yes, the intent may have been seen
// - If it says no, the intent has definitely not been seen.
type seenFilter struct {
	sync.Mutex
	bloom *bloomfilter.Filter
}

// newSeenFilter creates a filter of sizeKiB kibibytes.
func newSeenFilter(sizeKiB uint64) (*seenFilter, error) {
	bloom, err := bloomfilter.New(sizeKiB*1024*8, bloomHashFunctions)
	if err != nil {
		return nil, err
	}
	logger.Debugf("initialised seen intent filter with size %d bytes", bloom.M()/8)
	return &seenFilter{bloom: bloom}, nil
}

// markSeen adds the hash to the filter and returns false if it was
// possibly present already.
func (s *seenFilter) markSeen(hash common.Hash) bool {
	h := xxhash.NewS64(0)
	_, _ = h.Write(hash[:])

	s.Lock()
	defer s.Unlock()

	if s.bloom.Contains(h) {
		return false
	}
	s.bloom.Add(h)
	return true
}
