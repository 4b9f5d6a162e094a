package state

import (
	"time"

	"github.com/basketnetwork/basket-engine/internal/db"
)

type ReserveState struct {
	Assets   map[string]*db.Asset
	Reserves map[string]*db.Reserve
	Supply   *db.SyntheticSupply
}

type QueueState struct {
	// Chains holds the Active/PartiallyFilled positions per asset,
	// ordered ascending by id
	Chains map[string][]*db.QueuePosition
}

type StakeState struct {
	Accounts map[string]*db.StakeAccount
}

// Fill reports one position's share of a queue drain
type Fill struct {
	PositionId uint
	Owner      string
	Asset      string
	Amount     uint64
	Remaining  uint64
	EnqueuedAt time.Time
}

type EmissionSnapshot struct {
	MakerCap      uint64 `json:"maker_cap"`
	MakerMinted   uint64 `json:"maker_minted"`
	TakerCap      uint64 `json:"taker_cap"`
	TakerMinted   uint64 `json:"taker_minted"`
	FounderCap    uint64 `json:"founder_cap"`
	FounderVested uint64 `json:"founder_vested"`
	TotalMinted   uint64 `json:"total_minted"`
}

// Event payloads published on the EventBus

type DepositEvent struct {
	User   string
	Asset  string
	Amount uint64
	Minted uint64
}

type WithdrawEvent struct {
	User   string
	Asset  string
	Amount uint64
	Burned uint64
}

type QueueJoinedEvent struct {
	User       string
	Asset      string
	PositionId uint
	Amount     uint64
}

type QueueFilledEvent struct {
	PositionId uint
	Owner      string
	Asset      string
	Amount     uint64
	Remaining  uint64
}

type QueueCancelledEvent struct {
	PositionId uint
	Owner      string
	Asset      string
	Refund     uint64
}

type StakedEvent struct {
	User     string
	Amount   uint64
	NewPower uint64
}

type UnstakeInitiatedEvent struct {
	User           string
	Amount         uint64
	CompletionTime time.Time
}

type UnstakeCompletedEvent struct {
	User   string
	Amount uint64
}

type UnstakeCancelledEvent struct {
	User   string
	Amount uint64
}

type RewardMintedEvent struct {
	Pool   string
	To     string
	Amount uint64
}
