package engine

import (
	"sync"
	"time"

	"github.com/basketnetwork/basket-engine/internal/config"
	"github.com/basketnetwork/basket-engine/internal/db"
	"github.com/basketnetwork/basket-engine/internal/state"
	"github.com/basketnetwork/basket-engine/internal/token"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Module accounts on the token bank. ReserveAccount custodies the external
// reserve assets, QueueEscrowAccount holds the synthetic backing open queue
// positions, StakeVaultAccount holds staked reward tokens.
const (
	EngineAccount      = "basket-engine"
	ReserveAccount     = "reserve-pool"
	QueueEscrowAccount = "queue-escrow"
	StakeVaultAccount  = "stake-vault"
	FounderAccount     = "founder-treasury"
)

// Engine is the swap orchestrator. Every public write operation runs under a
// single mutex so each observes a consistent snapshot of all sub-ledgers and
// commits its effects atomically with respect to other callers.
type Engine struct {
	mu    sync.Mutex
	state *state.State
	bank  token.Ledger
	dbm   *db.DatabaseManager
}

func NewEngine(st *state.State, bank token.Ledger, dbm *db.DatabaseManager) *Engine {
	return &Engine{
		state: st,
		bank:  bank,
		dbm:   dbm,
	}
}

func (e *Engine) State() *state.State {
	return e.state
}

func (e *Engine) Bank() token.Ledger {
	return e.bank
}

func syntheticSymbol() string {
	return config.AppConfig.SyntheticSymbol
}

func rewardSymbol() string {
	return config.AppConfig.RewardSymbol
}

// toCanonical scales an external asset amount onto the canonical precision,
// rounding down when the asset carries more decimals than the ledger
func toCanonical(externalAmount uint64, decimals uint8) uint64 {
	canonical := config.AppConfig.CanonicalDecimals
	switch {
	case decimals == canonical:
		return externalAmount
	case decimals > canonical:
		return externalAmount / pow10(decimals-canonical)
	default:
		return externalAmount * pow10(canonical-decimals)
	}
}

// toExternal scales a canonical amount back to the asset's own precision,
// rounding down for assets coarser than the ledger
func toExternal(canonicalAmount uint64, decimals uint8) uint64 {
	canonical := config.AppConfig.CanonicalDecimals
	switch {
	case decimals == canonical:
		return canonicalAmount
	case decimals > canonical:
		return canonicalAmount * pow10(decimals-canonical)
	default:
		return canonicalAmount / pow10(canonical-decimals)
	}
}

func pow10(n uint8) uint64 {
	result := uint64(1)
	for i := uint8(0); i < n; i++ {
		result *= 10
	}
	return result
}

// journal records one receipt row per committed write operation. Journal
// failures are logged but never fail the already-committed operation.
func (e *Engine) journal(kind, account, asset string, amount, counterAmount uint64, positionId uint) string {
	receipt := &db.Receipt{
		ReceiptId:     uuid.New().String(),
		Kind:          kind,
		Account:       account,
		Asset:         asset,
		Amount:        amount,
		CounterAmount: counterAmount,
		PositionId:    positionId,
		CreatedAt:     time.Now(),
	}
	if err := e.dbm.GetLedgerDB().Create(receipt).Error; err != nil {
		log.Errorf("Engine journal %s for %s error: %v", kind, account, err)
	}
	return receipt.ReceiptId
}
