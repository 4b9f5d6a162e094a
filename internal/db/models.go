package db

import (
	"time"
)

// Asset registry model, registered at initialization and never removed
type Asset struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Symbol    string    `gorm:"not null;uniqueIndex" json:"symbol"`
	Decimals  uint8     `gorm:"not null" json:"decimals"` // external precision, normalized to canonical on entry
	Supported bool      `gorm:"not null" json:"supported"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Reserve model (one record per supported asset)
type Reserve struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Asset     string    `gorm:"not null;uniqueIndex" json:"asset"`
	Balance   uint64    `gorm:"not null" json:"balance"` // canonical smallest units
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// SyntheticSupply model (only 1 record)
type SyntheticSupply struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TotalSupply uint64    `gorm:"not null" json:"total_supply"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

// QueuePosition model, the primary key is the monotonic FIFO id
type QueuePosition struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Owner     string    `gorm:"not null;index" json:"owner"`
	Asset     string    `gorm:"not null;index" json:"asset"`
	Remaining uint64    `gorm:"not null" json:"remaining"` // synthetic units still owed
	Filled    uint64    `gorm:"not null" json:"filled"`
	Status    string    `gorm:"not null" json:"status"` // "active", "partially_filled", "filled", "cancelled"
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// StakeAccount model (one record per staker)
type StakeAccount struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Owner        string     `gorm:"not null;uniqueIndex" json:"owner"`
	Staked       uint64     `gorm:"not null" json:"staked"`
	StakeStart   time.Time  `json:"stake_start"`
	UnstakeStart *time.Time `json:"unstake_start"`
	Status       string     `gorm:"not null" json:"status"` // "none", "staked", "unstaking"
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

// EmissionState model (only 1 record), counters only go up
type EmissionState struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	MakerMinted   uint64    `gorm:"not null" json:"maker_minted"`
	TakerMinted   uint64    `gorm:"not null" json:"taker_minted"`
	FounderVested uint64    `gorm:"not null" json:"founder_vested"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

// TokenBalance model, balances per (token, account)
type TokenBalance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"not null;index:unique_token_account,unique" json:"token"`
	Account   string    `gorm:"not null;index:unique_token_account,unique" json:"account"`
	Balance   uint64    `gorm:"not null" json:"balance"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TokenAllowance model, spending grants per (token, owner, spender)
type TokenAllowance struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"not null;index:unique_token_owner_spender,unique" json:"token"`
	Owner     string    `gorm:"not null;index:unique_token_owner_spender,unique" json:"owner"`
	Spender   string    `gorm:"not null;index:unique_token_owner_spender,unique" json:"spender"`
	Amount    uint64    `gorm:"not null" json:"amount"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Receipt model, one journal row per committed write operation
type Receipt struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReceiptId     string    `gorm:"not null;uniqueIndex" json:"receipt_id"` // uuid
	Kind          string    `gorm:"not null;index" json:"kind"`
	Account       string    `gorm:"not null;index" json:"account"`
	Asset         string    `json:"asset"`
	Amount        uint64    `gorm:"not null" json:"amount"`
	CounterAmount uint64    `json:"counter_amount"` // minted/burned/refunded counterpart
	PositionId    uint      `json:"position_id"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
