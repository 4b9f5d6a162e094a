package http

type DepositRequest struct {
	Owner  string `json:"owner" binding:"required"`
	Asset  string `json:"asset" binding:"required"`
	Amount uint64 `json:"amount" binding:"required"`
}

type WithdrawRequest struct {
	Owner  string `json:"owner" binding:"required"`
	Asset  string `json:"asset" binding:"required"`
	Amount uint64 `json:"amount" binding:"required"`
}

type SwapRequest struct {
	Owner              string `json:"owner" binding:"required"`
	FromAsset          string `json:"from_asset" binding:"required"`
	ToAsset            string `json:"to_asset" binding:"required"`
	Amount             uint64 `json:"amount" binding:"required"`
	QueueIfUnavailable bool   `json:"queue_if_unavailable"`
}

type SwapFromSyntheticRequest struct {
	Owner              string `json:"owner" binding:"required"`
	ToAsset            string `json:"to_asset" binding:"required"`
	Amount             uint64 `json:"amount" binding:"required"`
	QueueIfUnavailable bool   `json:"queue_if_unavailable"`
}

type JoinQueueRequest struct {
	Owner  string `json:"owner" binding:"required"`
	Asset  string `json:"asset" binding:"required"`
	Amount uint64 `json:"amount" binding:"required"`
}

type CancelQueueRequest struct {
	Caller     string `json:"caller" binding:"required"`
	PositionId uint   `json:"position_id" binding:"required"`
}

type StakeRequest struct {
	Owner  string `json:"owner" binding:"required"`
	Amount uint64 `json:"amount" binding:"required"`
}

type UnstakeRequest struct {
	Owner string `json:"owner" binding:"required"`
}
