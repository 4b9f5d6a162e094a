package state_test

import (
	"testing"
	"time"

	"github.com/basketnetwork/basket-engine/internal/config"
	"github.com/basketnetwork/basket-engine/internal/db"
	"github.com/basketnetwork/basket-engine/internal/state"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) {
	config.AppConfig = config.Config{
		HTTPPort:          "8080",
		DbDir:             t.TempDir(),
		LogLevel:          logrus.WarnLevel,
		CanonicalDecimals: 6,
		SupportedAssets: []config.AssetSpec{
			{Symbol: "USDC", Decimals: 6},
			{Symbol: "USDT", Decimals: 6},
			{Symbol: "DAI", Decimals: 18},
		},
		SyntheticSymbol:   "BUSD",
		RewardSymbol:      "BSKT",
		FullPowerDuration: 720 * time.Hour,
		UnstakeCooldown:   168 * time.Hour,
		MakerCap:          600_000_000_000_000,
		TakerCap:          200_000_000_000_000,
		FounderCap:        200_000_000_000_000,
		MakerAprBps:       800,
		TakerFeeBps:       30,
	}
}

func newTestState(t *testing.T) (*state.State, *db.DatabaseManager) {
	newTestConfig(t)
	dbm := db.NewDatabaseManager()
	return state.InitializeState(dbm), dbm
}

func TestCreditDebit(t *testing.T) {
	st, _ := newTestState(t)

	require.NoError(t, st.Credit("USDC", 1000))
	assert.Equal(t, uint64(1000), st.GetReserve("USDC"))
	assert.Equal(t, uint64(1000), st.SyntheticSupply())

	require.NoError(t, st.Debit("USDC", 400))
	assert.Equal(t, uint64(600), st.GetReserve("USDC"))
	assert.Equal(t, uint64(600), st.SyntheticSupply())
}

func TestCreditErrors(t *testing.T) {
	st, _ := newTestState(t)

	assert.ErrorIs(t, st.Credit("WBTC", 100), db.ErrUnsupportedAsset)
	assert.ErrorIs(t, st.Credit("USDC", 0), db.ErrZeroAmount)
	assert.Equal(t, uint64(0), st.SyntheticSupply())
}

func TestDebitInsufficientReserves(t *testing.T) {
	st, _ := newTestState(t)

	require.NoError(t, st.Credit("USDT", 100))
	assert.ErrorIs(t, st.Debit("USDT", 101), db.ErrInsufficientReserves)
	assert.ErrorIs(t, st.Debit("USDC", 1), db.ErrInsufficientReserves)

	// rejected debits leave balance and supply untouched
	assert.Equal(t, uint64(100), st.GetReserve("USDT"))
	assert.Equal(t, uint64(100), st.SyntheticSupply())
}

func TestConservationInvariant(t *testing.T) {
	st, _ := newTestState(t)

	require.NoError(t, st.Credit("USDC", 500))
	require.NoError(t, st.Credit("USDT", 300))
	require.NoError(t, st.Credit("DAI", 200))
	require.NoError(t, st.Debit("USDT", 150))

	assert.Equal(t, st.SyntheticSupply(), st.TotalReserves())
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	st, _ := newTestState(t)

	require.NoError(t, st.Credit("USDC", 250))
	before := st.GetReserve("USDC")
	supplyBefore := st.SyntheticSupply()

	require.NoError(t, st.Credit("USDC", 777))
	require.NoError(t, st.Debit("USDC", 777))

	assert.Equal(t, before, st.GetReserve("USDC"))
	assert.Equal(t, supplyBefore, st.SyntheticSupply())
}

func TestReserveStateSurvivesRestart(t *testing.T) {
	newTestConfig(t)
	dbm := db.NewDatabaseManager()
	st := state.InitializeState(dbm)

	require.NoError(t, st.Credit("USDC", 1234))
	require.NoError(t, st.Credit("DAI", 66))

	restarted := state.InitializeState(dbm)
	assert.Equal(t, uint64(1234), restarted.GetReserve("USDC"))
	assert.Equal(t, uint64(66), restarted.GetReserve("DAI"))
	assert.Equal(t, uint64(1300), restarted.SyntheticSupply())
}
