// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package sr25519

import (
	"crypto/rand"
	"testing"

	"github.com/ChainSafe/anoma-go/lib/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKeypairFromSeed(t *testing.T) {
	seed := make([]byte, 32)
	_, err := rand.Read(seed)
	require.NoError(t, err)

	kp, err := NewKeypairFromSeed(seed)
	require.NoError(t, err)
	require.NotNil(t, kp.public)
	require.NotNil(t, kp.private)

	seed = make([]byte, 20)
	_, err = rand.Read(seed)
	require.NoError(t, err)
	kp, err = NewKeypairFromSeed(seed)
	require.Nil(t, kp)
	require.ErrorIs(t, err, ErrInvalidSeedLength)
}

func TestSignAndVerify(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	msg := []byte("helloworld")
	sig, err := kp.Sign(msg)
	require.NoError(t, err)

	pub := kp.Public().(*PublicKey)
	ok, err := pub.Verify(msg, sig)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestPublicKeys(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	priv := kp.Private().(*PrivateKey)
	kp2, err := NewKeypair(priv.key)
	require.NoError(t, err)
	require.Equal(t, kp.Public().Encode(), kp2.Public().Encode())
}

func TestEncodeAndDecodePrivateKey(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	enc := kp.Private().Encode()
	res := new(PrivateKey)
	err = res.Decode(enc)
	require.NoError(t, err)

	exp := kp.Private().(*PrivateKey).key.Encode()
	require.Equal(t, exp, res.key.Encode())

	pub, err := res.Public()
	require.NoError(t, err)
	require.Equal(t, kp.Public().Encode(), pub.Encode())
}

func TestEncodeAndDecodePublicKey(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	enc := kp.Public().Encode()
	res := new(PublicKey)
	err = res.Decode(enc)
	require.NoError(t, err)

	exp := kp.Public().(*PublicKey).key.Encode()
	require.Equal(t, exp, res.key.Encode())

	err = res.Decode(enc[:31])
	require.ErrorIs(t, err, ErrInvalidPublicKeyLength)
}

func TestVerifySignature(t *testing.T) {
	t.Parallel()

	keypair, err := GenerateKeypair()
	require.NoError(t, err)

	message := []byte("Hello world!")
	signature, err := keypair.Sign(message)
	require.NoError(t, err)

	testCases := map[string]struct {
		publicKey, signature, message []byte
		errWrapped                    error
	}{
		"success": {
			publicKey: keypair.public.Encode(),
			signature: signature,
			message:   message,
		},
		"verification failed": {
			publicKey:  keypair.public.Encode(),
			signature:  signature,
			message:    []byte("a225e8c75da7da319af6335e7642d473"),
			errWrapped: crypto.ErrInvalidSignature,
		},
		"bad public key length": {
			publicKey:  []byte{},
			signature:  signature,
			message:    message,
			errWrapped: ErrInvalidPublicKeyLength,
		},
		"bad signature length": {
			publicKey:  keypair.public.Encode(),
			signature:  []byte{1},
			message:    message,
			errWrapped: ErrInvalidSignatureLength,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := VerifySignature(testCase.publicKey, testCase.signature, testCase.message)
			assert.ErrorIs(t, err, testCase.errWrapped)
		})
	}
}
