// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package signing

import (
	"errors"
	"fmt"

	"github.com/ChainSafe/anoma-go/internal/log"
	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/proto"
	"github.com/ChainSafe/anoma-go/lib/storage"
	"github.com/ChainSafe/anoma-go/lib/transaction"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var logger = log.NewFromGlobal(log.AddContext("pkg", "signing"))

var (
	signedTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "anoma_signing",
		Name:      "signed_total",
		Help:      "number of signed transactions by kind",
	}, []string{"kind"})
	missingKeys = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "anoma_signing",
		Name:      "missing_key_total",
		Help:      "number of signing attempts without key material",
	})
)

var (
	// ErrMissingKeyMaterial is returned when no key is found for a signer.
	ErrMissingKeyMaterial = errors.New("missing key material")
	// ErrNoDefaultSigner is returned when no signer is given and none is configured.
	ErrNoDefaultSigner = errors.New("no signer given and no default signer configured")
	// ErrNotSignedBy is returned when a transaction carries no valid signature of an address.
	ErrNotSignedBy = errors.New("transaction not signed by address")
)

// FatalError is an error the service cannot recover from: without key
// material a transaction must not be signed nor broadcast. The caller
// decides how to terminate.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "fatal: " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error chain contains a *FatalError.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// KeyStore is the key storage the service reads key material from.
type KeyStore interface {
	FindKeypair(addr address.Address) (crypto.Keypair, error)
	FindPublicKey(addr address.Address) (crypto.PublicKey, error)
}

// Config is the signing service configuration.
type Config struct {
	// DefaultSigner signs when no signer is given.
	DefaultSigner *address.Address
	// Pool tracks the wrappers signed by the service when set.
	Pool *transaction.Pool
	// Queue orders the wrappers signed by the service for broadcast when set.
	Queue *transaction.PriorityQueue
}

// TxSigningKey selects the key signing a transaction: an explicit
// keypair, the key of a signer address, or the default signer when
// both are empty.
type TxSigningKey struct {
	Keypair crypto.Keypair
	Signer  *address.Address
}

// WithKeypair signs with the keypair.
func WithKeypair(kp crypto.Keypair) TxSigningKey {
	return TxSigningKey{Keypair: kp}
}

// WithSigner signs with the key of the address.
func WithSigner(addr address.Address) TxSigningKey {
	return TxSigningKey{Signer: &addr}
}

// WrapperArgs are the wrapper fields chosen by the sender.
type WrapperArgs struct {
	Fee      transaction.Fee
	Epoch    storage.Epoch
	GasLimit transaction.GasLimit
	// EncryptionKey encrypts the inner transaction when set.
	EncryptionKey *transaction.EncryptionKey
}

// WrappedTx is a signed wrapper with the two hashes needed to follow it:
// the wrapper hash identifies its inclusion in a block and the payload
// hash identifies the execution of the inner transaction.
type WrappedTx struct {
	Tx          *proto.Tx
	WrapperHash common.Hash
	PayloadHash common.Hash
}

// Service signs transactions with keys from a KeyStore.
type Service struct {
	keys KeyStore
	cfg  Config
}

// NewService creates a new signing service.
func NewService(ks KeyStore, cfg Config) *Service {
	return &Service{
		keys: ks,
		cfg:  cfg,
	}
}

// FindKeypair returns the keypair of the address. A missing key is a
// *FatalError wrapping ErrMissingKeyMaterial.
func (s *Service) FindKeypair(addr address.Address) (crypto.Keypair, error) {
	kp, err := s.keys.FindKeypair(addr)
	if err != nil {
		missingKeys.Inc()
		logger.Errorf("no key for %s: %s", addr, err)
		return nil, &FatalError{
			Err: fmt.Errorf("%w: %s: %s", ErrMissingKeyMaterial, addr, err),
		}
	}
	return kp, nil
}

func (s *Service) keypair(signer TxSigningKey) (crypto.Keypair, error) {
	switch {
	case signer.Keypair != nil:
		return signer.Keypair, nil
	case signer.Signer != nil:
		return s.FindKeypair(*signer.Signer)
	case s.cfg.DefaultSigner != nil:
		logger.Debugf("signing with default signer %s", *s.cfg.DefaultSigner)
		return s.FindKeypair(*s.cfg.DefaultSigner)
	default:
		return nil, &FatalError{Err: ErrNoDefaultSigner}
	}
}

// SignTx signs the transaction in place and returns it.
func (s *Service) SignTx(tx *proto.Tx, signer TxSigningKey) (*proto.Tx, error) {
	kp, err := s.keypair(signer)
	if err != nil {
		return nil, err
	}

	if err = tx.Sign(kp); err != nil {
		return nil, err
	}

	signedTransactions.WithLabelValues(transaction.RawKind.String()).Inc()
	logger.Debugf("signed transaction %s with %s key", tx.SigningHash(), kp.Type())
	return tx, nil
}

// SignWrapper wraps the inner transaction, checks the fee and gas, and
// signs the wrapper. The wrapped transaction is tracked when the service
// has a pool and queued when it has a queue.
func (s *Service) SignWrapper(inner *proto.Tx, args WrapperArgs, signer TxSigningKey) (WrappedTx, error) {
	kp, err := s.keypair(signer)
	if err != nil {
		return WrappedTx{}, err
	}

	w, err := transaction.NewWrapperTx(args.Fee, kp.Public(), args.Epoch, args.GasLimit, inner, args.EncryptionKey)
	if err != nil {
		return WrappedTx{}, err
	}
	if err = transaction.ValidateWrapper(w, args.EncryptionKey); err != nil {
		return WrappedTx{}, err
	}

	tx, err := w.Sign(kp)
	if err != nil {
		return WrappedTx{}, err
	}

	wrapped := WrappedTx{
		Tx:          tx,
		WrapperHash: tx.Hash(),
		PayloadHash: w.TxHash,
	}
	if s.cfg.Pool != nil {
		s.cfg.Pool.Insert(wrapped.WrapperHash, wrapped.PayloadHash)
	}
	if s.cfg.Queue != nil {
		s.cfg.Queue.Push(wrapped.WrapperHash, w)
	}

	signedTransactions.WithLabelValues(transaction.WrapperKind.String()).Inc()
	logger.Debugf("signed wrapper %s for payload %s", wrapped.WrapperHash, wrapped.PayloadHash)
	return wrapped, nil
}

// VerifySignedBy checks that the transaction carries a valid signature
// made with the key of the address.
func (s *Service) VerifySignedBy(tx *proto.Tx, addr address.Address) error {
	pub, err := s.keys.FindPublicKey(addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrMissingKeyMaterial, addr, err)
	}
	if !tx.IsSignedBy(pub) {
		return fmt.Errorf("%w: %s", ErrNotSignedBy, addr)
	}
	return nil
}
