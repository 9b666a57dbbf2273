// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"github.com/ChainSafe/anoma-go/internal/log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "transaction"))

var (
	queuedWrappers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "anoma_transaction",
		Name:      "queued_wrappers",
		Help:      "number of wrapper transactions waiting for inclusion",
	})
	trackedTransactions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "anoma_transaction",
		Name:      "tracked",
		Help:      "number of tracked transactions by status",
	}, []string{"status"})
)

// Status is the lifecycle stage of a wrapped transaction.
//
// A wrapper is first:
//   - `Pending` until broadcast
//   - `Broadcast` until included in a block, keyed by its wrapper hash
//
// Once its wrapper is included, the inner transaction is:
//   - `InBlock` until executed, keyed by its payload hash
//   - `Applied` or `Rejected` by execution
//
// A wrapper can also be `Dropped` before inclusion.
type Status int64

const (
	// Pending status occurs when the wrapper is built and signed.
	Pending Status = iota
	// Broadcast status occurs when the wrapper has been sent to the ledger.
	Broadcast
	// InBlock status occurs when the wrapper has been included in a block.
	InBlock
	// Applied status occurs when the inner transaction has been executed successfully.
	Applied
	// Rejected status occurs when the inner transaction failed execution
	// or could not be decrypted.
	Rejected
	// Dropped status occurs when the wrapper was never included.
	Dropped
)

// String returns string representation of current status.
func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Broadcast:
		return "broadcast"
	case InBlock:
		return "inBlock"
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	case Dropped:
		return "dropped"
	}
	return "unknown"
}

// IsFinal returns true once the status can no longer change.
func (s Status) IsFinal() bool {
	return s == Applied || s == Rejected || s == Dropped
}
