package db

const (
	QUEUE_STATUS_ACTIVE    = "active"
	QUEUE_STATUS_PARTIAL   = "partially_filled"
	QUEUE_STATUS_FILLED    = "filled"
	QUEUE_STATUS_CANCELLED = "cancelled"

	STAKE_STATUS_NONE      = "none"
	STAKE_STATUS_STAKED    = "staked"
	STAKE_STATUS_UNSTAKING = "unstaking"

	RECEIPT_KIND_DEPOSIT          = "deposit"
	RECEIPT_KIND_WITHDRAW         = "withdraw"
	RECEIPT_KIND_SWAP             = "swap"
	RECEIPT_KIND_QUEUE_JOIN       = "queue_join"
	RECEIPT_KIND_QUEUE_FILL       = "queue_fill"
	RECEIPT_KIND_QUEUE_CANCEL     = "queue_cancel"
	RECEIPT_KIND_STAKE            = "stake"
	RECEIPT_KIND_UNSTAKE          = "unstake"
	RECEIPT_KIND_UNSTAKE_COMPLETE = "unstake_complete"
	RECEIPT_KIND_UNSTAKE_CANCEL   = "unstake_cancel"
	RECEIPT_KIND_REWARD           = "reward"
)
