// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package signing

import (
	"errors"
	"testing"

	"github.com/ChainSafe/anoma-go/lib/address"
	"github.com/ChainSafe/anoma-go/lib/common"
	"github.com/ChainSafe/anoma-go/lib/crypto"
	"github.com/ChainSafe/anoma-go/lib/crypto/keys"
	"github.com/ChainSafe/anoma-go/lib/keystore"
	"github.com/ChainSafe/anoma-go/lib/proto"
	"github.com/ChainSafe/anoma-go/lib/transaction"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTest = errors.New("test error")

func newTestKeypair(t *testing.T) crypto.Keypair {
	t.Helper()

	kp, err := keys.GenerateKeypair(crypto.Ed25519Type)
	require.NoError(t, err)
	return kp
}

func newTestWrapperArgs() WrapperArgs {
	return WrapperArgs{
		Fee:      transaction.Fee{Amount: 100, Token: address.XAN},
		Epoch:    3,
		GasLimit: transaction.NewGasLimit(1_000_000),
	}
}

func Test_Service_FindKeypair(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	kp := newTestKeypair(t)
	known := address.FromPublicKey(kp.Public())
	unknown := address.NewEstablished([]byte("unknown"))

	ks := NewMockKeyStore(ctrl)
	ks.EXPECT().FindKeypair(known).Return(kp, nil)
	ks.EXPECT().FindKeypair(unknown).Return(nil, errTest)

	s := NewService(ks, Config{})

	found, err := s.FindKeypair(known)
	require.NoError(t, err)
	assert.Equal(t, kp, found)

	found, err = s.FindKeypair(unknown)
	assert.Nil(t, found)
	assert.ErrorIs(t, err, ErrMissingKeyMaterial)
	assert.True(t, IsFatal(err))
}

func Test_Service_SignTx(t *testing.T) {
	t.Parallel()

	explicit := newTestKeypair(t)
	signer := newTestKeypair(t)
	defaultSigner := newTestKeypair(t)
	signerAddress := address.FromPublicKey(signer.Public())
	defaultAddress := address.FromPublicKey(defaultSigner.Public())

	testCases := map[string]struct {
		signingKey    TxSigningKey
		defaultSigner *address.Address
		expectKeys    func(ks *MockKeyStore)
		expected      crypto.Keypair
		errWrapped    error
		fatal         bool
	}{
		"explicit keypair": {
			signingKey: WithKeypair(explicit),
			expected:   explicit,
		},
		"explicit signer": {
			signingKey: WithSigner(signerAddress),
			expectKeys: func(ks *MockKeyStore) {
				ks.EXPECT().FindKeypair(signerAddress).Return(signer, nil)
			},
			expected: signer,
		},
		"default signer": {
			defaultSigner: &defaultAddress,
			expectKeys: func(ks *MockKeyStore) {
				ks.EXPECT().FindKeypair(defaultAddress).Return(defaultSigner, nil)
			},
			expected: defaultSigner,
		},
		"explicit signer takes precedence over default": {
			signingKey:    WithSigner(signerAddress),
			defaultSigner: &defaultAddress,
			expectKeys: func(ks *MockKeyStore) {
				ks.EXPECT().FindKeypair(signerAddress).Return(signer, nil)
			},
			expected: signer,
		},
		"no default signer": {
			errWrapped: ErrNoDefaultSigner,
			fatal:      true,
		},
		"missing key": {
			signingKey: WithSigner(signerAddress),
			expectKeys: func(ks *MockKeyStore) {
				ks.EXPECT().FindKeypair(signerAddress).Return(nil, keystore.ErrKeyNotFound)
			},
			errWrapped: ErrMissingKeyMaterial,
			fatal:      true,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			ks := NewMockKeyStore(ctrl)
			if testCase.expectKeys != nil {
				testCase.expectKeys(ks)
			}

			s := NewService(ks, Config{DefaultSigner: testCase.defaultSigner})
			tx := proto.NewTx([]byte("code"), []byte("data"))

			signed, err := s.SignTx(tx, testCase.signingKey)
			assert.ErrorIs(t, err, testCase.errWrapped)
			assert.Equal(t, testCase.fatal, IsFatal(err))
			if testCase.errWrapped != nil {
				assert.Nil(t, signed)
				assert.Empty(t, tx.Signatures)
				return
			}

			require.NoError(t, signed.VerifySignatures())
			assert.True(t, signed.IsSignedBy(testCase.expected.Public()))
		})
	}
}

func Test_Service_SignWrapper(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	kp := newTestKeypair(t)
	addr := address.FromPublicKey(kp.Public())

	ks := NewMockKeyStore(ctrl)
	ks.EXPECT().FindKeypair(addr).Return(kp, nil)

	pool := transaction.NewPool()
	queue := transaction.NewPriorityQueue()
	s := NewService(ks, Config{DefaultSigner: &addr, Pool: pool, Queue: queue})

	inner := proto.NewTx([]byte("code"), []byte("data"))
	wrapped, err := s.SignWrapper(inner, newTestWrapperArgs(), TxSigningKey{})
	require.NoError(t, err)

	assert.Equal(t, common.HashOf(inner.Encode()), wrapped.PayloadHash)
	assert.Equal(t, wrapped.Tx.Hash(), wrapped.WrapperHash)
	assert.NotEqual(t, wrapped.WrapperHash, wrapped.PayloadHash)
	require.NoError(t, wrapped.Tx.VerifySignatures())
	assert.True(t, wrapped.Tx.IsSignedBy(kp.Public()))

	txType, err := transaction.TxTypeFromTx(wrapped.Tx)
	require.NoError(t, err)
	w, ok := txType.(*transaction.WrapperTx)
	require.True(t, ok)
	decoded, err := w.InnerTx(nil)
	require.NoError(t, err)
	assert.Equal(t, inner.Encode(), decoded.Encode())

	tracked, ok := pool.ByPayloadHash(wrapped.PayloadHash)
	require.True(t, ok)
	assert.Equal(t, wrapped.WrapperHash, tracked.WrapperHash)
	assert.Equal(t, transaction.Pending, tracked.Status)

	queued := queue.Pop()
	require.NotNil(t, queued)
	assert.Equal(t, wrapped.WrapperHash, queued.Hash)
	assert.Equal(t, w.Fee, queued.Wrapper.Fee)
}

func Test_Service_SignWrapper_errors(t *testing.T) {
	t.Parallel()

	kp := newTestKeypair(t)

	testCases := map[string]struct {
		modify     func(args *WrapperArgs)
		signingKey TxSigningKey
		errWrapped error
		fatal      bool
	}{
		"no signer": {
			errWrapped: ErrNoDefaultSigner,
			fatal:      true,
		},
		"zero fee": {
			modify:     func(args *WrapperArgs) { args.Fee.Amount = 0 },
			signingKey: WithKeypair(kp),
			errWrapped: transaction.ErrZeroFee,
		},
		"gas limit too low": {
			modify:     func(args *WrapperArgs) { args.GasLimit = transaction.NewGasLimit(0) },
			signingKey: WithKeypair(kp),
			errWrapped: transaction.ErrGasLimitTooLow,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			pool := transaction.NewPool()
			s := NewService(NewMockKeyStore(ctrl), Config{Pool: pool})

			args := newTestWrapperArgs()
			if testCase.modify != nil {
				testCase.modify(&args)
			}

			wrapped, err := s.SignWrapper(proto.NewTx(nil, nil), args, testCase.signingKey)
			assert.ErrorIs(t, err, testCase.errWrapped)
			assert.Equal(t, testCase.fatal, IsFatal(err))
			assert.Equal(t, WrappedTx{}, wrapped)
			assert.Equal(t, 0, pool.Len())
		})
	}
}

func Test_Service_VerifySignedBy(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	kp := newTestKeypair(t)
	other := newTestKeypair(t)
	addr := address.FromPublicKey(kp.Public())
	otherAddr := address.FromPublicKey(other.Public())
	unknown := address.NewEstablished([]byte("unknown"))

	ks := NewMockKeyStore(ctrl)
	ks.EXPECT().FindPublicKey(addr).Return(kp.Public(), nil)
	ks.EXPECT().FindPublicKey(otherAddr).Return(other.Public(), nil)
	ks.EXPECT().FindPublicKey(unknown).Return(nil, keystore.ErrKeyNotFound)

	s := NewService(ks, Config{})
	tx, err := s.SignTx(proto.NewTx([]byte("code"), nil), WithKeypair(kp))
	require.NoError(t, err)

	assert.NoError(t, s.VerifySignedBy(tx, addr))
	assert.ErrorIs(t, s.VerifySignedBy(tx, otherAddr), ErrNotSignedBy)

	err = s.VerifySignedBy(tx, unknown)
	assert.ErrorIs(t, err, ErrMissingKeyMaterial)
	assert.False(t, IsFatal(err))
}

func Test_Service_SignWrapper_feeBump(t *testing.T) {
	t.Parallel()

	kp := newTestKeypair(t)
	pool := transaction.NewPool()
	s := NewService(NewMockKeyStore(gomock.NewController(t)), Config{Pool: pool})

	inner := proto.NewTx([]byte("code"), []byte("data"))
	args := newTestWrapperArgs()
	first, err := s.SignWrapper(inner, args, WithKeypair(kp))
	require.NoError(t, err)

	args.Fee.Amount *= 2
	bumped, err := s.SignWrapper(inner, args, WithKeypair(kp))
	require.NoError(t, err)

	require.Equal(t, first.PayloadHash, bumped.PayloadHash)
	require.NotEqual(t, first.WrapperHash, bumped.WrapperHash)
	assert.Equal(t, 2, pool.Len())

	pool.Remove(bumped.WrapperHash)
	tracked, ok := pool.ByPayloadHash(first.PayloadHash)
	require.True(t, ok)
	assert.Equal(t, first.WrapperHash, tracked.WrapperHash)
	require.NoError(t, pool.MarkExecuted(first.PayloadHash, 7, true))
}
