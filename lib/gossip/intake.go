// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package gossip

import (
	"errors"
	"fmt"
	"time"

	"github.com/ChainSafe/anoma-go/internal/log"
	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/intent"
	"github.com/ChainSafe/anoma-go/lib/proto"

	"github.com/dgraph-io/ristretto"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "gossip"))

var (
	acceptedIntents = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "anoma_gossip",
		Name:      "intents_accepted_total",
		Help:      "number of gossiped intents accepted",
	})
	rejectedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "anoma_gossip",
		Name:      "messages_rejected_total",
		Help:      "number of gossip messages rejected as malformed",
	})
	duplicateIntents = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "anoma_gossip",
		Name:      "intents_duplicate_total",
		Help:      "number of gossiped intents already seen",
	})
)

// ErrInvalidMessage is returned when a gossip message cannot be decoded.
var ErrInvalidMessage = errors.New("invalid gossip message")

const (
	// DefaultCacheTTL is the default duration an intent stays in the cache.
	DefaultCacheTTL = 5 * time.Minute
	// DefaultBloomSizeKiB is the default size of the seen intent filter.
	DefaultBloomSizeKiB = 256
)

// Config is the intake configuration.
type Config struct {
	CacheTTL     time.Duration
	BloomSizeKiB uint64
	// Cache overrides the default ristretto configuration when set.
	Cache *ristretto.Config
}

func (c Config) withDefaults() Config {
	if c.CacheTTL == 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	if c.BloomSizeKiB == 0 {
		c.BloomSizeKiB = DefaultBloomSizeKiB
	}
	if c.Cache == nil {
		c.Cache = &ristretto.Config{
			NumCounters: 1e5,
			MaxCost:     1e4,
			BufferItems: 64,
		}
	}
	return c
}

// Intake decodes intents gossiped by peers and drops the ones already seen.
type Intake struct {
	cache *ristretto.Cache
	ttl   time.Duration
	seen  *seenFilter
}

// NewIntake creates a new intake.
func NewIntake(cfg Config) (*Intake, error) {
	cfg = cfg.withDefaults()

	cache, err := ristretto.NewCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("creating intent cache: %w", err)
	}

	seen, err := newSeenFilter(cfg.BloomSizeKiB)
	if err != nil {
		return nil, fmt.Errorf("creating seen filter: %w", err)
	}

	return &Intake{
		cache: cache,
		ttl:   cfg.CacheTTL,
		seen:  seen,
	}, nil
}

// HandleMessage decodes a gossip message and returns the intents it
// carries that were not seen before. A malformed message is rejected
// as a whole.
func (in *Intake) HandleMessage(from string, b []byte) ([]intent.Intent, error) {
	message, err := proto.DecodeIntentGossipMessage(b)
	if err != nil {
		rejectedMessages.Inc()
		logger.Debugf("rejected gossip message from %s: %s", from, err)
		return nil, fmt.Errorf("%w: %s", ErrInvalidMessage, err)
	}

	intents, err := intent.FromGossipMessage(message)
	if err != nil {
		rejectedMessages.Inc()
		logger.Debugf("rejected intents from %s: %s", from, err)
		return nil, fmt.Errorf("%w: %s", ErrInvalidMessage, err)
	}

	fresh := make([]intent.Intent, 0, len(intents))
	for _, i := range intents {
		hash, err := i.Hash()
		if err != nil {
			return nil, fmt.Errorf("hashing intent: %w", err)
		}

		if !in.seen.markSeen(hash) {
			duplicateIntents.Inc()
			logger.Tracef("dropping duplicate intent %s from %s", hash, from)
			continue
		}

		in.cache.SetWithTTL(hash.ToBytes(), i, 1, in.ttl)
		acceptedIntents.Inc()
		fresh = append(fresh, i)
	}

	logger.Debugf("accepted %d of %d intents from %s", len(fresh), len(intents), from)
	return fresh, nil
}

// Intent returns a recently accepted intent by hash.
func (in *Intake) Intent(hash common.Hash) (intent.Intent, bool) {
	value, ok := in.cache.Get(hash.ToBytes())
	if !ok {
		return intent.Intent{}, false
	}
	i, ok := value.(intent.Intent)
	return i, ok
}

// Close stops the cache.
func (in *Intake) Close() {
	in.cache.Close()
}
