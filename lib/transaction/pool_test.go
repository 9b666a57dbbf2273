// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

package transaction

import (
	"testing"

	"github.com/ChainSafe/anoma-go/lib/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Pool_lifecycle(t *testing.T) {
	t.Parallel()

	wrapperHash := common.Hash{1}
	payloadHash := common.Hash{2}

	p := NewPool()
	p.Insert(wrapperHash, payloadHash)
	p.Insert(wrapperHash, payloadHash)
	require.Equal(t, 1, p.Len())

	require.NoError(t, p.MarkBroadcast(wrapperHash))
	require.NoError(t, p.MarkInBlock(wrapperHash, 10))

	tx, ok := p.ByPayloadHash(payloadHash)
	require.True(t, ok)
	assert.Equal(t, InBlock, tx.Status)
	assert.Equal(t, wrapperHash, tx.WrapperHash)

	err := p.MarkDropped(wrapperHash)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, p.MarkExecuted(payloadHash, 11, true))
	tx, ok = p.ByWrapperHash(wrapperHash)
	require.True(t, ok)
	assert.Equal(t, Applied, tx.Status)
	assert.Equal(t, uint64(11), uint64(tx.Height))
	assert.True(t, tx.Status.IsFinal())

	err = p.MarkExecuted(payloadHash, 12, false)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	p.Remove(wrapperHash)
	assert.Equal(t, 0, p.Len())
	_, ok = p.ByPayloadHash(payloadHash)
	assert.False(t, ok)
}

func Test_Pool_rewrappedPayload(t *testing.T) {
	t.Parallel()

	payloadHash := common.Hash{2}
	first := common.Hash{1}
	bumped := common.Hash{3}

	testCases := map[string]struct {
		update          func(p *Pool) error
		expectedWrapper common.Hash
		expectedLen     int
	}{
		"latest wrapper": {
			update:          func(p *Pool) error { return nil },
			expectedWrapper: bumped,
			expectedLen:     2,
		},
		"latest wrapper removed": {
			update: func(p *Pool) error {
				p.Remove(bumped)
				return nil
			},
			expectedWrapper: first,
			expectedLen:     1,
		},
		"first wrapper removed": {
			update: func(p *Pool) error {
				p.Remove(first)
				return nil
			},
			expectedWrapper: bumped,
			expectedLen:     1,
		},
		"included wrapper wins": {
			update:          func(p *Pool) error { return p.MarkInBlock(first, 4) },
			expectedWrapper: first,
			expectedLen:     2,
		},
		"dropped wrapper skipped": {
			update:          func(p *Pool) error { return p.MarkDropped(bumped) },
			expectedWrapper: first,
			expectedLen:     2,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := NewPool()
			p.Insert(first, payloadHash)
			p.Insert(bumped, payloadHash)

			require.NoError(t, testCase.update(p))
			assert.Equal(t, testCase.expectedLen, p.Len())

			tx, ok := p.ByPayloadHash(payloadHash)
			require.True(t, ok)
			assert.Equal(t, testCase.expectedWrapper, tx.WrapperHash)

			require.NoError(t, p.MarkExecuted(payloadHash, 5, true))
			tx, ok = p.ByWrapperHash(testCase.expectedWrapper)
			require.True(t, ok)
			assert.Equal(t, Applied, tx.Status)
		})
	}

	p := NewPool()
	p.Insert(first, payloadHash)
	p.Insert(bumped, payloadHash)
	p.Remove(first)
	p.Remove(bumped)
	_, ok := p.ByPayloadHash(payloadHash)
	assert.False(t, ok)
}

func Test_Pool_transitions(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		update     func(p *Pool) error
		errWrapped error
		expected   Status
	}{
		"unknown wrapper": {
			update:     func(p *Pool) error { return p.MarkBroadcast(common.Hash{9}) },
			errWrapped: ErrUnknownTransaction,
			expected:   Pending,
		},
		"unknown payload": {
			update:     func(p *Pool) error { return p.MarkExecuted(common.Hash{9}, 1, true) },
			errWrapped: ErrUnknownTransaction,
			expected:   Pending,
		},
		"dropped before inclusion": {
			update:   func(p *Pool) error { return p.MarkDropped(common.Hash{1}) },
			expected: Dropped,
		},
		"rejected": {
			update:   func(p *Pool) error { return p.MarkExecuted(common.Hash{2}, 1, false) },
			expected: Rejected,
		},
		"broadcast twice": {
			update: func(p *Pool) error {
				if err := p.MarkBroadcast(common.Hash{1}); err != nil {
					return err
				}
				return p.MarkBroadcast(common.Hash{1})
			},
			errWrapped: ErrInvalidTransition,
			expected:   Broadcast,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			p := NewPool()
			p.Insert(common.Hash{1}, common.Hash{2})

			err := testCase.update(p)
			assert.ErrorIs(t, err, testCase.errWrapped)

			txs := p.Transactions()
			require.Len(t, txs, 1)
			assert.Equal(t, testCase.expected, txs[0].Status)
		})
	}
}

func Test_Status_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "inBlock", InBlock.String())
	assert.Equal(t, "dropped", Dropped.String())
	assert.Equal(t, "unknown", Status(42).String())
}
