package state_test

import (
	"testing"

	"github.com/basketnetwork/basket-engine/internal/db"
	"github.com/basketnetwork/basket-engine/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueAssignsMonotonicIds(t *testing.T) {
	st, _ := newTestState(t)

	id1, err := st.Enqueue("USDC", "alice", 100)
	require.NoError(t, err)
	id2, err := st.Enqueue("USDC", "bob", 200)
	require.NoError(t, err)
	id3, err := st.Enqueue("USDT", "carol", 300)
	require.NoError(t, err)

	assert.Less(t, id1, id2)
	assert.Less(t, id2, id3)

	_, err = st.Enqueue("USDC", "alice", 0)
	assert.ErrorIs(t, err, db.ErrZeroAmount)
}

func TestDrainFifoPartialFill(t *testing.T) {
	st, _ := newTestState(t)

	id1, err := st.Enqueue("USDC", "alice", 200)
	require.NoError(t, err)
	id2, err := st.Enqueue("USDC", "bob", 300)
	require.NoError(t, err)

	fills, err := st.Drain("USDC", 250)
	require.NoError(t, err)
	require.Len(t, fills, 2)

	// senior position fully filled before any amount reaches the junior one
	assert.Equal(t, id1, fills[0].PositionId)
	assert.Equal(t, uint64(200), fills[0].Amount)
	assert.Equal(t, uint64(0), fills[0].Remaining)
	assert.Equal(t, id2, fills[1].PositionId)
	assert.Equal(t, uint64(50), fills[1].Amount)
	assert.Equal(t, uint64(250), fills[1].Remaining)

	p1, err := st.GetPosition(id1)
	require.NoError(t, err)
	assert.Equal(t, db.QUEUE_STATUS_FILLED, p1.Status)

	p2, err := st.GetPosition(id2)
	require.NoError(t, err)
	assert.Equal(t, db.QUEUE_STATUS_PARTIAL, p2.Status)
	assert.Equal(t, uint64(250), p2.Remaining)

	// the partially filled position keeps its place at the head
	amountAhead, lineNumber, err := st.PositionInfo(id2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), amountAhead)
	assert.Equal(t, 1, lineNumber)

	assert.Equal(t, uint64(250), st.Depth("USDC"))
}

func TestDrainExhaustsQueue(t *testing.T) {
	st, _ := newTestState(t)

	_, err := st.Enqueue("USDT", "alice", 100)
	require.NoError(t, err)

	fills, err := st.Drain("USDT", 500)
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, uint64(100), fills[0].Amount)
	assert.Equal(t, uint64(0), st.Depth("USDT"))

	// nothing left to drain
	fills, err = st.Drain("USDT", 500)
	require.NoError(t, err)
	assert.Empty(t, fills)
}

func TestCancelPosition(t *testing.T) {
	st, _ := newTestState(t)

	id1, err := st.Enqueue("USDC", "alice", 100)
	require.NoError(t, err)
	id2, err := st.Enqueue("USDC", "bob", 50)
	require.NoError(t, err)
	id3, err := st.Enqueue("USDC", "carol", 75)
	require.NoError(t, err)

	_, _, err = st.CancelPosition(id2, "alice")
	assert.ErrorIs(t, err, db.ErrNotOwner)

	refund, asset, err := st.CancelPosition(id2, "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(50), refund)
	assert.Equal(t, "USDC", asset)
	assert.Equal(t, uint64(175), st.Depth("USDC"))

	position, err := st.GetPosition(id2)
	require.NoError(t, err)
	assert.Equal(t, db.QUEUE_STATUS_CANCELLED, position.Status)

	// cancelled positions are terminal
	_, _, err = st.CancelPosition(id2, "bob")
	assert.ErrorIs(t, err, db.ErrPositionNotFound)
	_, _, err = st.CancelPosition(9999, "bob")
	assert.ErrorIs(t, err, db.ErrPositionNotFound)

	// FIFO order of the survivors is unaffected
	amountAhead, lineNumber, err := st.PositionInfo(id3)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), amountAhead)
	assert.Equal(t, 2, lineNumber)

	amountAhead, lineNumber, err = st.PositionInfo(id1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), amountAhead)
	assert.Equal(t, 1, lineNumber)
}

func TestDepthMatchesOpenPositions(t *testing.T) {
	st, _ := newTestState(t)

	_, err := st.Enqueue("DAI", "alice", 40)
	require.NoError(t, err)
	_, err = st.Enqueue("DAI", "bob", 60)
	require.NoError(t, err)
	_, err = st.Drain("DAI", 10)
	require.NoError(t, err)

	assert.Equal(t, uint64(90), st.Depth("DAI"))
	assert.Equal(t, uint64(0), st.Depth("USDC"))
}

func TestQueueSurvivesRestart(t *testing.T) {
	newTestConfig(t)
	dbm := db.NewDatabaseManager()
	st := state.InitializeState(dbm)

	id1, err := st.Enqueue("USDC", "alice", 100)
	require.NoError(t, err)
	id2, err := st.Enqueue("USDC", "bob", 200)
	require.NoError(t, err)
	_, err = st.Drain("USDC", 100)
	require.NoError(t, err)

	restarted := state.InitializeState(dbm)
	assert.Equal(t, uint64(200), restarted.Depth("USDC"))

	_, _, err = restarted.PositionInfo(id1)
	assert.ErrorIs(t, err, db.ErrPositionNotFound)

	amountAhead, lineNumber, err := restarted.PositionInfo(id2)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), amountAhead)
	assert.Equal(t, 1, lineNumber)
}
