// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package crypto

import (
	"fmt"
	"sync"

	"github.com/ChainSafe/anoma-go/internal/log"
)

// SignatureInfo holds a signature together with everything
// needed to verify it.
type SignatureInfo struct {
	PubKey     []byte
	Sign       []byte
	Msg        []byte
	VerifyFunc SigVerifyFunc
}

// SignatureVerifier verifies a batch of signatures in the background.
// Start() is called to start the verification process.
// Signatures can be added to the batch using Add().
// Finish() is called to wait for the batch result.
type SignatureVerifier struct {
	logger log.LeveledLogger
	queue  chan *SignatureInfo
	done   chan struct{}

	mutex   sync.RWMutex
	invalid error
}

// NewSignatureVerifier creates a signature verifier logging with the given logger.
func NewSignatureVerifier(logger log.LeveledLogger) *SignatureVerifier {
	return &SignatureVerifier{
		logger: logger,
	}
}

// Start starts the background verification of the batch.
func (sv *SignatureVerifier) Start() {
	const queueSize = 16
	sv.queue = make(chan *SignatureInfo, queueSize)
	sv.done = make(chan struct{})

	go func() {
		defer close(sv.done)
		index := 0
		for sig := range sv.queue {
			if sv.IsInvalid() {
				continue
			}

			err := sig.VerifyFunc(sig.PubKey, sig.Sign, sig.Msg)
			if err != nil {
				sv.logger.Debugf("signature %d of batch failed verification: %s", index, err)
				sv.setInvalid(fmt.Errorf("signature %d: %w", index, err))
			}
			index++
		}
	}()
}

// IsInvalid returns true if any signature of the batch failed verification.
func (sv *SignatureVerifier) IsInvalid() bool {
	sv.mutex.RLock()
	defer sv.mutex.RUnlock()
	return sv.invalid != nil
}

func (sv *SignatureVerifier) setInvalid(err error) {
	sv.mutex.Lock()
	defer sv.mutex.Unlock()
	if sv.invalid == nil {
		sv.invalid = err
	}
}

// Add adds a signature to the running batch.
func (sv *SignatureVerifier) Add(s *SignatureInfo) {
	sv.queue <- s
}

// Finish waits till the batch is verified and resets the verifier for reuse.
// It returns the first verification error of the batch, if any.
func (sv *SignatureVerifier) Finish() error {
	close(sv.queue)
	<-sv.done

	sv.mutex.Lock()
	defer sv.mutex.Unlock()
	err := sv.invalid
	sv.invalid = nil
	return err
}

// VerifyBatch verifies all the signatures given and returns
// the first verification error.
func VerifyBatch(logger log.LeveledLogger, signatures []*SignatureInfo) error {
	sv := NewSignatureVerifier(logger)
	sv.Start()
	for _, sig := range signatures {
		sv.Add(sig)
	}
	return sv.Finish()
}
